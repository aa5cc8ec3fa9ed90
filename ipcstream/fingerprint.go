package ipcstream

import (
	"strconv"
	"strings"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/cespare/xxhash/v2"

	"github.com/sparrowdata/arrowipc/internal/fb"
	"github.com/sparrowdata/arrowipc/ipctype"
)

// fingerprint is the schema-consistency key spec §4.5.1 requires: the
// xxHash64 of an ordered list of (name, type_tag, nullability) per field,
// recursing into children, so two schemas that are structurally identical
// for wire purposes compare equal even if the *arrow.Schema values backing
// them are distinct objects. A uint64 hash keeps every Writer/Reader schema
// comparison a single comparable-value check instead of a string compare.
type fingerprint uint64

func schemaFingerprint(schema *arrow.Schema) (fingerprint, error) {
	var sb strings.Builder
	for _, f := range schema.Fields() {
		if err := fieldFingerprint(&sb, f); err != nil {
			return 0, err
		}
	}

	return fingerprint(xxhash.Sum64String(sb.String())), nil
}

func fieldFingerprint(sb *strings.Builder, f arrow.Field) error {
	tag, err := ipctype.TagOf(f.Type)
	if err != nil {
		return err
	}

	sb.WriteString(f.Name)
	sb.WriteByte('\x00')
	sb.WriteString(tag.String())
	sb.WriteByte('\x00')
	sb.WriteString(strconv.FormatBool(f.Nullable))
	sb.WriteByte('\x1f')

	for _, child := range fb.ChildrenOf(f.Type) {
		if err := fieldFingerprint(sb, child); err != nil {
			return err
		}
	}

	return nil
}
