package loader

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	cueerrors "cuelang.org/go/cue/errors"

	oerrors "github.com/clusterlesshq/conventions/internal/errors"
)

//go:embed schema.cue
var schemaSource []byte

// decode compiles data, unifies it with the schema definition def, validates
// it as concrete and decodes it into out.
func decode(cueCtx *cue.Context, filename string, data []byte, def string, out any) error {
	schema := cueCtx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("internal error: compiling schema: %w", err)
	}

	root := schema.LookupPath(cue.ParsePath(def))
	if err := root.Err(); err != nil {
		return fmt.Errorf("internal error: schema definition %s not found: %w", def, err)
	}

	value := cueCtx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return formatError(err, filename)
	}

	unified := root.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return formatError(err, filename)
	}
	if err := unified.Decode(out); err != nil {
		return formatError(err, filename)
	}
	return nil
}

// formatError renders every CUE error with its path on its own line.
func formatError(err error, filename string) error {
	var lines []string
	var field string
	for _, e := range cueerrors.Errors(err) {
		path := strings.Join(cueerrors.Path(e), ".")
		if field == "" {
			field = path
		}
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		if path != "" {
			msg = path + ": " + msg
		}
		lines = append(lines, msg)
	}
	if len(lines) == 0 {
		lines = append(lines, err.Error())
	}

	return &oerrors.DetailError{
		Type:     "invalid workspace declaration",
		Message:  strings.Join(lines, "\n  "),
		Location: filename,
		Field:    field,
		Hint:     "Run 'conv vet' to check the workspace declaration.",
		Cause:    oerrors.ErrValidation,
	}
}
