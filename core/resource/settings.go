// Copyright 2026 Coral Search Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package resource

import (
	"github.com/juju/errors"
	"github.com/juju/schema"
)

// Keys of the block-related settings in a resource's raw attribute map.
const (
	ReadOnlyKey       = "blocks.read_only"
	BlocksReadKey     = "blocks.read"
	BlocksWriteKey    = "blocks.write"
	BlocksMetadataKey = "blocks.metadata"
)

var settingsChecker = schema.FieldMap(
	schema.Fields{
		ReadOnlyKey:       schema.Bool(),
		BlocksReadKey:     schema.Bool(),
		BlocksWriteKey:    schema.Bool(),
		BlocksMetadataKey: schema.Bool(),
	},
	schema.Defaults{
		ReadOnlyKey:       false,
		BlocksReadKey:     false,
		BlocksWriteKey:    false,
		BlocksMetadataKey: false,
	},
)

// ParseSettings coerces a raw attribute map, as the metadata store persists
// it, into Settings. Absent keys default to false; unknown keys are
// ignored, values that cannot coerce to bool are an error.
func ParseSettings(attrs map[string]interface{}) (Settings, error) {
	known := make(map[string]interface{})
	for _, key := range []string{ReadOnlyKey, BlocksReadKey, BlocksWriteKey, BlocksMetadataKey} {
		if value, ok := attrs[key]; ok {
			known[key] = value
		}
	}
	coerced, err := settingsChecker.Coerce(known, nil)
	if err != nil {
		return Settings{}, errors.Annotate(err, "resource block settings")
	}
	m := coerced.(map[string]interface{})
	return Settings{
		ReadOnly:       m[ReadOnlyKey].(bool),
		BlocksRead:     m[BlocksReadKey].(bool),
		BlocksWrite:    m[BlocksWriteKey].(bool),
		BlocksMetadata: m[BlocksMetadataKey].(bool),
	}, nil
}
