package css

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	tcss "github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser represents a CSS parser
type Parser struct {
	log *zap.Logger
}

// Rule represents a CSS rule
type Rule struct {
	Selectors    []string
	Declarations []*Declaration
}

// Declaration represents a CSS declaration (property-value pair)
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// Stylesheet represents a parsed CSS stylesheet
type Stylesheet struct {
	Rules []*Rule
}

// NewParser creates a new CSS parser. A nil logger disables logging.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css")}
}

// ParseString parses CSS from a string
func (p *Parser) ParseString(content string) (*Stylesheet, error) {
	return p.Parse(strings.NewReader(content))
}

// Parse parses CSS from an io.Reader. Malformed declarations and at-rules
// are skipped; only read failures are returned as errors.
func (p *Parser) Parse(r io.Reader) (*Stylesheet, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read stylesheet: %w", err)
	}

	sheet := &Stylesheet{Rules: []*Rule{}}
	parser := tcss.NewParser(parse.NewInput(bytes.NewReader(content)), false)

	for {
		gt, _, data := parser.Next()
		switch gt {
		case tcss.ErrorGrammar:
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				p.log.Debug("Stylesheet parse error", zap.Error(err))
				// the parser resynchronizes after a bad declaration or selector
				if parser.HasParseError() {
					continue
				}
			}
			return sheet, nil

		case tcss.BeginAtRuleGrammar:
			p.log.Debug("Skipping at-rule", zap.String("rule", string(data)))
			p.skipAtRule(parser)

		case tcss.AtRuleGrammar:
			p.log.Debug("Skipping at-rule", zap.String("rule", string(data)))

		case tcss.BeginRulesetGrammar:
			rule := &Rule{Selectors: selectors(parser.Values())}
			rule.Declarations = p.declarations(parser)
			if len(rule.Selectors) > 0 {
				sheet.Rules = append(sheet.Rules, rule)
			}
		}
	}
}

func (p *Parser) skipAtRule(parser *tcss.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case tcss.ErrorGrammar:
			if !parser.HasParseError() {
				return
			}
		case tcss.BeginAtRuleGrammar:
			depth++
		case tcss.EndAtRuleGrammar:
			depth--
		}
	}
}

func (p *Parser) declarations(parser *tcss.Parser) []*Declaration {
	var decls []*Declaration
	for {
		gt, _, data := parser.Next()
		switch gt {
		case tcss.EndRulesetGrammar:
			return decls
		case tcss.ErrorGrammar:
			if !parser.HasParseError() {
				return decls
			}
			p.log.Debug("Skipping malformed declaration", zap.Error(parser.Err()))
		case tcss.DeclarationGrammar:
			value, important := declarationValue(parser.Values())
			if value == "" {
				continue
			}
			decls = append(decls, &Declaration{
				Property:  strings.ToLower(string(data)),
				Value:     value,
				Important: important,
			})
		}
	}
}

func selectors(tokens []tcss.Token) []string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.Write(t.Data)
	}
	var out []string
	for _, s := range strings.Split(sb.String(), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func declarationValue(tokens []tcss.Token) (string, bool) {
	important := false
	if n := len(tokens); n >= 2 &&
		tokens[n-1].TokenType == tcss.IdentToken && strings.EqualFold(string(tokens[n-1].Data), "important") &&
		tokens[n-2].TokenType == tcss.DelimToken && string(tokens[n-2].Data) == "!" {
		important = true
		tokens = tokens[:n-2]
	}

	var sb strings.Builder
	for _, t := range tokens {
		if t.TokenType == tcss.WhitespaceToken {
			sb.WriteByte(' ')
			continue
		}
		sb.Write(t.Data)
	}
	return strings.TrimSpace(sb.String()), important
}

// Value returns the value of the last declaration for property, preferring
// declarations marked !important.
func (r *Rule) Value(property string) (string, bool) {
	var value string
	found, important := false, false
	for _, d := range r.Declarations {
		if d.Property != property || (important && !d.Important) {
			continue
		}
		value, found, important = d.Value, true, d.Important
	}
	return value, found
}
