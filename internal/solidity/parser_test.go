package solidity

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseMissingFile(t *testing.T) {
	p := NewParser("", nil, testLogger())
	_, err := p.Parse(context.Background(), filepath.Join(t.TempDir(), "Missing.sol"))

	var cerr *CompilationError
	require.ErrorAs(t, err, &cerr)
}

func TestExtractDefinitions(t *testing.T) {
	ast := &ASTCompact{
		Nodes: []map[string]any{
			{"nodeType": "PragmaDirective"},
			{
				"nodeType": "ContractDefinition",
				"name":     "Vault",
				"nodes": []any{
					map[string]any{"nodeType": "FunctionDefinition", "name": "withdraw"},
					map[string]any{"nodeType": "FunctionDefinition", "name": "deposit"},
					map[string]any{"nodeType": "FunctionDefinition", "name": ""}, // constructor
					map[string]any{"nodeType": "EventDefinition", "name": "Withdrawn"},
					map[string]any{"nodeType": "ModifierDefinition", "name": "onlyOwner"},
				},
			},
			{"nodeType": "ContractDefinition", "name": "Helper"},
		},
	}

	defs := ExtractDefinitions(ast)
	assert.Equal(t, "Vault", defs.ContractName)
	assert.Equal(t, []string{"withdraw", "deposit"}, defs.Functions)
	assert.Equal(t, []string{"Withdrawn"}, defs.Events)
	assert.Equal(t, []string{"onlyOwner"}, defs.Modifiers)
}

func TestExtractDefinitionsNilAST(t *testing.T) {
	assert.Zero(t, ExtractDefinitions(nil))
}

func TestExtractJSONTrimsBanner(t *testing.T) {
	out := []byte("======= Vault.sol =======\n{\"nodes\":[]}")
	assert.Equal(t, []byte("{\"nodes\":[]}"), extractJSON(out))

	plain := []byte(`{"nodes":[]}`)
	assert.Equal(t, plain, extractJSON(plain))
}
