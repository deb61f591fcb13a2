package expr

import (
	"bytes"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// rewritePower turns every `a ** b` into `pow(a, b)` so formulas saved in
// Python syntax still parse. `**` binds tighter than unary minus on its left
// and is right-associative, as in Python.
func rewritePower(text string) (string, error) {
	for {
		if !bytes.Contains([]byte(text), []byte("**")) {
			return text, nil
		}
		tokens, diags := hclsyntax.LexExpression([]byte(text), "expression", hcl.Pos{Line: 1, Column: 1, Byte: 0})
		if diags.HasErrors() {
			// Leave the text alone and let the parser report it.
			return text, nil
		}

		op := lastPowerOperator(tokens)
		if op < 0 {
			return text, nil
		}

		baseStart, err := operandBefore(tokens, op)
		if err != nil {
			return "", err
		}
		expEnd, err := operandAfter(tokens, op+2)
		if err != nil {
			return "", err
		}

		from := tokens[baseStart].Range.Start.Byte
		to := tokens[expEnd].Range.End.Byte
		base := text[from:tokens[op].Range.Start.Byte]
		exponent := text[tokens[op+1].Range.End.Byte:to]
		text = text[:from] + "pow(" + base + ", " + exponent + ")" + text[to:]
	}
}

func lastPowerOperator(tokens hclsyntax.Tokens) int {
	for i := len(tokens) - 2; i >= 0; i-- {
		a, b := tokens[i], tokens[i+1]
		if a.Type == hclsyntax.TokenStar && b.Type == hclsyntax.TokenStar && a.Range.End.Byte == b.Range.Start.Byte {
			return i
		}
	}
	return -1
}

// operandBefore returns the index of the first token of the atom ending
// right before tokens[op].
func operandBefore(tokens hclsyntax.Tokens, op int) (int, error) {
	i := op - 1
	if i < 0 {
		return 0, fmt.Errorf("'**' has no left operand")
	}
	switch tokens[i].Type {
	case hclsyntax.TokenIdent, hclsyntax.TokenNumberLit:
		return i, nil
	case hclsyntax.TokenCParen:
		depth := 0
		for ; i >= 0; i-- {
			switch tokens[i].Type {
			case hclsyntax.TokenCParen:
				depth++
			case hclsyntax.TokenOParen:
				depth--
			}
			if depth == 0 {
				break
			}
		}
		if i < 0 {
			return 0, fmt.Errorf("unbalanced parentheses before '**'")
		}
		if i > 0 && tokens[i-1].Type == hclsyntax.TokenIdent {
			i--
		}
		return i, nil
	default:
		return 0, fmt.Errorf("'**' has no left operand")
	}
}

// operandAfter returns the index of the last token of the operand starting
// at tokens[start]: an optional sign followed by an atom.
func operandAfter(tokens hclsyntax.Tokens, start int) (int, error) {
	i := start
	if i < len(tokens) && (tokens[i].Type == hclsyntax.TokenMinus || tokens[i].Type == hclsyntax.TokenPlus) {
		i++
	}
	if i >= len(tokens) {
		return 0, fmt.Errorf("'**' has no right operand")
	}
	switch tokens[i].Type {
	case hclsyntax.TokenNumberLit:
		return i, nil
	case hclsyntax.TokenIdent:
		if i+1 < len(tokens) && tokens[i+1].Type == hclsyntax.TokenOParen {
			return closingParen(tokens, i+1)
		}
		return i, nil
	case hclsyntax.TokenOParen:
		return closingParen(tokens, i)
	default:
		return 0, fmt.Errorf("'**' has no right operand")
	}
}

func closingParen(tokens hclsyntax.Tokens, open int) (int, error) {
	depth := 0
	for i := open; i < len(tokens); i++ {
		switch tokens[i].Type {
		case hclsyntax.TokenOParen:
			depth++
		case hclsyntax.TokenCParen:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("unbalanced parentheses after '**'")
}
