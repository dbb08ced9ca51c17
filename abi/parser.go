package abi

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParseSignature parses a canonical human-readable signature string such as
// "transfer(address to, uint256 amount)" or
// "event Transfer(address indexed from, uint256 value)" into an Entry.
//
// The leading keyword (function, event, error, constructor) is optional and
// defaults to function, except for the reserved forms "fallback()" and
// "receive()". Functions additionally accept a state-mutability keyword and a
// trailing "returns (...)" clause. The parse is all-or-nothing: no partial
// Entry is ever returned.
func ParseSignature(signature string) (Entry, error) {
	toks, err := lexSignature(signature)
	if err != nil {
		return Entry{}, err
	}
	p := &sigParser{signature: signature, toks: toks}
	entry, err := p.parseEntry()
	if err != nil {
		return Entry{}, err
	}
	return entry, nil
}

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokNumber
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokComma
	tokEOF
)

type token struct {
	kind tokenKind
	text string
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '$'
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func lexSignature(signature string) ([]token, error) {
	runes := []rune(signature)
	var toks []token
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			toks = append(toks, token{tokLParen, "("})
			i++
		case r == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++
		case r == '[':
			toks = append(toks, token{tokLBracket, "["})
			i++
		case r == ']':
			toks = append(toks, token{tokRBracket, "]"})
			i++
		case r == ',':
			toks = append(toks, token{tokComma, ","})
			i++
		case unicode.IsDigit(r):
			j := i
			for j < len(runes) && unicode.IsDigit(runes[j]) {
				j++
			}
			toks = append(toks, token{tokNumber, string(runes[i:j])})
			i = j
		case isIdentStart(r):
			j := i
			for j < len(runes) && isIdentPart(runes[j]) {
				j++
			}
			toks = append(toks, token{tokIdent, string(runes[i:j])})
			i = j
		default:
			return nil, &InvalidSignatureError{Signature: signature, Reason: fmt.Sprintf("unexpected character %q", r)}
		}
	}
	toks = append(toks, token{tokEOF, ""})
	return toks, nil
}

type sigParser struct {
	signature string
	toks      []token
	pos       int
}

func (p *sigParser) peek() token {
	return p.toks[p.pos]
}

func (p *sigParser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *sigParser) expect(kind tokenKind, what string) (token, error) {
	t := p.next()
	if t.kind != kind {
		return t, p.failf("expected %s, found %q", what, t.text)
	}
	return t, nil
}

func (p *sigParser) failf(format string, args ...interface{}) error {
	return &InvalidSignatureError{Signature: p.signature, Reason: fmt.Sprintf(format, args...)}
}

func mutabilityKeyword(word string) (StateMutability, bool) {
	switch word {
	case "pure":
		return Pure, true
	case "view":
		return View, true
	case "nonpayable":
		return NonPayable, true
	case "payable":
		return Payable, true
	}
	return "", false
}

func (p *sigParser) parseEntry() (Entry, error) {
	if p.peek().kind == tokEOF {
		return Entry{}, p.failf("empty signature")
	}

	first, err := p.expect(tokIdent, "keyword or name")
	if err != nil {
		return Entry{}, err
	}

	switch first.text {
	case "constructor":
		return p.parseConstructor()
	case "fallback", "receive":
		return p.parseReservedForm(first.text)
	case "event":
		name, err := p.expect(tokIdent, "event name")
		if err != nil {
			return Entry{}, err
		}
		return p.parseEvent(name.text)
	case "error":
		name, err := p.expect(tokIdent, "error name")
		if err != nil {
			return Entry{}, err
		}
		return p.parseError(name.text)
	case "function":
		name, err := p.expect(tokIdent, "function name")
		if err != nil {
			return Entry{}, err
		}
		return p.parseFunction(name.text)
	default:
		// Bare identifier: defaults to a function signature.
		return p.parseFunction(first.text)
	}
}

func (p *sigParser) parseConstructor() (Entry, error) {
	inputs, err := p.parseParameterList(false)
	if err != nil {
		return Entry{}, err
	}
	mutability := NonPayable
	if t := p.peek(); t.kind == tokIdent {
		m, ok := mutabilityKeyword(t.text)
		if !ok || (m != Payable && m != NonPayable) {
			return Entry{}, p.failf("unexpected token %q after constructor parameters", t.text)
		}
		mutability = m
		p.next()
	}
	if err := p.expectEOF(); err != nil {
		return Entry{}, err
	}
	return Entry{Type: ConstructorEntry, Inputs: inputs, StateMutability: mutability}, nil
}

// parseReservedForm handles "fallback()" and "receive()", which take no
// parameters and no name.
func (p *sigParser) parseReservedForm(form string) (Entry, error) {
	if _, err := p.expect(tokLParen, `"("`); err != nil {
		return Entry{}, err
	}
	if _, err := p.expect(tokRParen, `")"`); err != nil {
		return Entry{}, p.failf("%s() takes no parameters", form)
	}

	entryType := FallbackEntry
	mutability := NonPayable
	if form == "receive" {
		entryType = ReceiveEntry
		mutability = Payable
	}
	if t := p.peek(); t.kind == tokIdent {
		m, ok := mutabilityKeyword(t.text)
		if !ok {
			return Entry{}, p.failf("unexpected token %q after %s()", t.text, form)
		}
		if form == "receive" && m != Payable {
			return Entry{}, p.failf(`receive() must be "payable", found %q`, t.text)
		}
		if form == "fallback" && m != Payable && m != NonPayable {
			return Entry{}, p.failf(`fallback() must be "payable" or "nonpayable", found %q`, t.text)
		}
		mutability = m
		p.next()
	}
	if err := p.expectEOF(); err != nil {
		return Entry{}, err
	}
	return Entry{Type: entryType, StateMutability: mutability}, nil
}

func (p *sigParser) parseEvent(name string) (Entry, error) {
	inputs, err := p.parseParameterList(true)
	if err != nil {
		return Entry{}, err
	}
	anonymous := false
	if t := p.peek(); t.kind == tokIdent && t.text == "anonymous" {
		anonymous = true
		p.next()
	}
	if err := p.expectEOF(); err != nil {
		return Entry{}, err
	}
	return Entry{Type: EventEntry, Name: name, Inputs: inputs, Anonymous: anonymous}, nil
}

func (p *sigParser) parseError(name string) (Entry, error) {
	inputs, err := p.parseParameterList(false)
	if err != nil {
		return Entry{}, err
	}
	if err := p.expectEOF(); err != nil {
		return Entry{}, err
	}
	return Entry{Type: ErrorEntry, Name: name, Inputs: inputs}, nil
}

func (p *sigParser) parseFunction(name string) (Entry, error) {
	inputs, err := p.parseParameterList(false)
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{Type: FunctionEntry, Name: name, Inputs: inputs, Outputs: []Parameter{}}
	mutability := StateMutability("")
	sawReturns := false
	for {
		t := p.peek()
		if t.kind == tokEOF {
			break
		}
		if t.kind != tokIdent {
			return Entry{}, p.failf("unexpected token %q after parameter list", t.text)
		}
		if m, ok := mutabilityKeyword(t.text); ok {
			if mutability != "" {
				return Entry{}, p.failf("duplicate state-mutability keyword %q", t.text)
			}
			mutability = m
			p.next()
			continue
		}
		if t.text == "returns" {
			if sawReturns {
				return Entry{}, p.failf(`duplicate "returns" clause`)
			}
			sawReturns = true
			p.next()
			outputs, err := p.parseParameterList(false)
			if err != nil {
				return Entry{}, err
			}
			entry.Outputs = outputs
			continue
		}
		return Entry{}, p.failf("unexpected token %q after parameter list", t.text)
	}

	if mutability == "" {
		mutability = NonPayable
	}
	entry.StateMutability = mutability
	return entry, nil
}

func (p *sigParser) expectEOF() error {
	if t := p.peek(); t.kind != tokEOF {
		return p.failf("unexpected trailing token %q", t.text)
	}
	return nil
}

// parseParameterList parses "(" [param ("," param)*] ")".
func (p *sigParser) parseParameterList(inEvent bool) ([]Parameter, error) {
	if _, err := p.expect(tokLParen, `"("`); err != nil {
		return nil, err
	}
	params := []Parameter{}
	if p.peek().kind == tokRParen {
		p.next()
		return params, nil
	}
	for {
		param, err := p.parseParameter(inEvent)
		if err != nil {
			return nil, err
		}
		params = append(params, param)

		t := p.next()
		if t.kind == tokComma {
			continue
		}
		if t.kind == tokRParen {
			return params, nil
		}
		return nil, p.failf(`malformed parameter list: expected "," or ")", found %q`, t.text)
	}
}

// parseParameter parses "<type> [indexed] [name]". The indexed marker is only
// legal inside an event parameter list.
func (p *sigParser) parseParameter(inEvent bool) (Parameter, error) {
	param, err := p.parseType()
	if err != nil {
		return Parameter{}, err
	}

	if t := p.peek(); t.kind == tokIdent && t.text == "indexed" {
		if !inEvent {
			return Parameter{}, p.failf(`"indexed" is only valid on event parameters`)
		}
		param.Indexed = true
		p.next()
		if t := p.peek(); t.kind == tokIdent && t.text == "indexed" {
			return Parameter{}, p.failf(`duplicate "indexed" marker`)
		}
	}

	if t := p.peek(); t.kind == tokIdent {
		param.Name = t.text
		p.next()
	}
	return param, nil
}

// parseType parses an elementary type keyword or a parenthesized tuple,
// followed by any number of array suffixes.
func (p *sigParser) parseType() (Parameter, error) {
	var param Parameter

	t := p.next()
	switch t.kind {
	case tokLParen:
		components := []Parameter{}
		if p.peek().kind == tokRParen {
			p.next()
		} else {
			for {
				component, err := p.parseParameter(false)
				if err != nil {
					return Parameter{}, err
				}
				components = append(components, component)

				sep := p.next()
				if sep.kind == tokComma {
					continue
				}
				if sep.kind == tokRParen {
					break
				}
				return Parameter{}, p.failf(`malformed tuple: expected "," or ")", found %q`, sep.text)
			}
		}
		param = Parameter{Type: "tuple", Components: components}
	case tokIdent:
		canonical, err := canonicalElementary(t.text)
		if err != nil {
			return Parameter{}, err
		}
		param = Parameter{Type: canonical}
	default:
		return Parameter{}, p.failf("expected parameter type, found %q", t.text)
	}

	suffix, err := p.parseArraySuffixes()
	if err != nil {
		return Parameter{}, err
	}
	param.Type += suffix
	return param, nil
}

// parseArraySuffixes consumes "[]" and "[N]" groups left-to-right and returns
// the combined suffix string.
func (p *sigParser) parseArraySuffixes() (string, error) {
	var suffix strings.Builder
	for p.peek().kind == tokLBracket {
		p.next()
		t := p.next()
		switch t.kind {
		case tokRBracket:
			suffix.WriteString("[]")
			continue
		case tokNumber:
			length, err := strconv.Atoi(t.text)
			if err != nil || length < 0 {
				return "", &InvalidTypeError{Type: t.text, Reason: "array dimension is not a valid length"}
			}
			if _, err := p.expect(tokRBracket, `"]"`); err != nil {
				return "", err
			}
			suffix.WriteString("[" + t.text + "]")
		default:
			return "", p.failf("malformed array suffix: found %q", t.text)
		}
	}
	return suffix.String(), nil
}
