package resource

import (
	_ "embed"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	//go:embed schemas/item.schema.json
	itemSchemaSrc string
	//go:embed schemas/tag.schema.json
	tagSchemaSrc string
	//go:embed schemas/script.schema.json
	scriptSchemaSrc string
	//go:embed schemas/tile.schema.json
	tileSchemaSrc string
)

var (
	itemSchema   = jsonschema.MustCompileString("item.schema.json", itemSchemaSrc)
	tagSchema    = jsonschema.MustCompileString("tag.schema.json", tagSchemaSrc)
	scriptSchema = jsonschema.MustCompileString("script.schema.json", scriptSchemaSrc)
	tileSchema   = jsonschema.MustCompileString("tile.schema.json", tileSchemaSrc)
)
