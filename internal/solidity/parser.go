package solidity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/xab-mack/solpipe/internal/cache"
	"github.com/xab-mack/solpipe/internal/model"
)

// ASTCompact represents a subset of solc --ast-compact-json output.
type ASTCompact struct {
	AbsolutePath    string           `json:"absolutePath"`
	ExportedSymbols map[string][]int `json:"exportedSymbols"`
	Nodes           []map[string]any `json:"nodes"`
}

// CompilationError reports an artifact solc could not compile.
type CompilationError struct {
	Path string
	Err  error
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("compilation failed for %s: %v", e.Path, e.Err)
}

func (e *CompilationError) Unwrap() error { return e.Err }

// Parser obtains a compact AST for a Solidity file via solc and extracts the
// contract's definitions. solc output is cached by file content.
type Parser struct {
	solcPath string
	disk     *cache.Disk
	log      *slog.Logger
}

func NewParser(solcPath string, disk *cache.Disk, log *slog.Logger) *Parser {
	if solcPath == "" {
		solcPath = "solc"
	}
	return &Parser{solcPath: solcPath, disk: disk, log: log}
}

func (p *Parser) Parse(ctx context.Context, path string) (*model.Contract, error) {
	abs, _ := filepath.Abs(path)
	src, err := os.ReadFile(abs)
	if err != nil {
		return nil, &CompilationError{Path: path, Err: err}
	}

	ast, err := p.compile(ctx, abs, string(src))
	if err != nil {
		return nil, err
	}

	defs := ExtractDefinitions(ast)
	name := defs.ContractName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	}
	return &model.Contract{
		Name:      name,
		Path:      abs,
		Source:    string(src),
		AST:       ast,
		Functions: defs.Functions,
		Events:    defs.Events,
		Modifiers: defs.Modifiers,
	}, nil
}

func (p *Parser) compile(ctx context.Context, abs, src string) (*ASTCompact, error) {
	key := cache.Key("solc-ast-v1", p.solcPath, abs, src)
	if p.disk != nil {
		var ast ASTCompact
		if p.disk.LoadJSON(key, &ast) {
			p.log.Debug("solc ast cache hit", "path", abs)
			return &ast, nil
		}
	}

	cmd := exec.CommandContext(ctx, p.solcPath, "--ast-compact-json", abs)
	out, err := cmd.Output()
	if err != nil {
		return nil, &CompilationError{Path: abs, Err: err}
	}
	var ast ASTCompact
	if err := json.Unmarshal(extractJSON(out), &ast); err != nil {
		return nil, &CompilationError{Path: abs, Err: err}
	}
	if p.disk != nil {
		_ = p.disk.StoreJSON(key, &ast)
	}
	return &ast, nil
}

// extractJSON trims the banner lines solc prints before the AST document.
func extractJSON(out []byte) []byte {
	if i := strings.IndexByte(string(out), '{'); i > 0 {
		return out[i:]
	}
	return out
}
