package ast

import "github.com/spicery/swift2kt/pkg/common"

// compact drops nil subtrees so the printer never sees a gap.
func compact(trees ...common.PrintableTree) []common.PrintableTree {
	result := make([]common.PrintableTree, 0, len(trees))
	for _, tree := range trees {
		if tree != nil {
			result = append(result, tree)
		}
	}
	return result
}

func leaves(labels ...string) []common.PrintableTree {
	result := make([]common.PrintableTree, 0, len(labels))
	for _, label := range labels {
		result = append(result, common.PrintableLeaf(label))
	}
	return result
}

func flag(set bool, label string) common.PrintableTree {
	if !set {
		return nil
	}
	return common.PrintableLeaf(label)
}

func optionalLeaf(key string, value string) common.PrintableTree {
	if value == "" {
		return nil
	}
	return common.PrintableLeaf(key + " → " + value)
}

func optionalBranch(label string, subtrees []common.PrintableTree) common.PrintableTree {
	if len(subtrees) == 0 {
		return nil
	}
	return common.NewBranch(label, subtrees...)
}

func stringsBranch(label string, values []string) common.PrintableTree {
	return optionalBranch(label, leaves(values...))
}

func statementTrees(statements []Statement) []common.PrintableTree {
	result := make([]common.PrintableTree, 0, len(statements))
	for _, statement := range statements {
		if statement != nil {
			result = append(result, statement)
		}
	}
	return result
}

func statementsBranch(label string, statements []Statement) *common.PrintableBranch {
	return common.NewBranch(label, statementTrees(statements)...)
}

func expressionTrees(expressions []Expression) []common.PrintableTree {
	result := make([]common.PrintableTree, 0, len(expressions))
	for _, expression := range expressions {
		if expression != nil {
			result = append(result, expression)
		}
	}
	return result
}

// Dump draws any IR tree with the box-drawing printer.
func Dump(tree common.PrintableTree, horizontalLimit int) string {
	return common.PrettyString(tree, horizontalLimit)
}
