package solidity

// Definitions is the subset of AST metadata the pipeline carries around.
type Definitions struct {
	ContractName string
	Functions    []string
	Events       []string
	Modifiers    []string
}

// ExtractDefinitions walks the compact AST and collects function, event and
// modifier names. The first contract definition names the unit.
func ExtractDefinitions(ast *ASTCompact) Definitions {
	var defs Definitions
	if ast == nil {
		return defs
	}
	for _, node := range ast.Nodes {
		walkNode(node, &defs)
	}
	return defs
}

func walkNode(node map[string]any, defs *Definitions) {
	name, _ := node["name"].(string)
	switch node["nodeType"] {
	case "ContractDefinition":
		if defs.ContractName == "" {
			defs.ContractName = name
		}
	case "FunctionDefinition":
		if name != "" {
			defs.Functions = append(defs.Functions, name)
		}
	case "EventDefinition":
		defs.Events = append(defs.Events, name)
	case "ModifierDefinition":
		defs.Modifiers = append(defs.Modifiers, name)
	}
	children, _ := node["nodes"].([]any)
	for _, c := range children {
		if child, ok := c.(map[string]any); ok {
			walkNode(child, defs)
		}
	}
}
