/*
 * Copyright 2026 The Yorkie Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package types

import (
	"fmt"
	"strings"
	"unicode"
)

// Parse parses the textual form of a descriptor as rendered by String:
// "Integer", "[String]" or "{age: Integer, tags: [String]}".
func Parse(s string) (Descriptor, error) {
	p := &parser{input: s}
	d, err := p.parseDescriptor()
	if err != nil {
		return nil, fmt.Errorf("parse type %q: %w", s, err)
	}

	p.skipSpaces()
	if !p.done() {
		return nil, fmt.Errorf("parse type %q: unexpected %q at %d", s, p.input[p.pos:], p.pos)
	}
	return d, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) done() bool {
	return p.pos >= len(p.input)
}

func (p *parser) peek() byte {
	if p.done() {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) skipSpaces() {
	for !p.done() && unicode.IsSpace(rune(p.input[p.pos])) {
		p.pos++
	}
}

func (p *parser) expect(c byte) error {
	p.skipSpaces()
	if p.peek() != c {
		return fmt.Errorf("expected %q at %d", c, p.pos)
	}
	p.pos++
	return nil
}

func (p *parser) ident() string {
	p.skipSpaces()
	start := p.pos
	for !p.done() {
		c := rune(p.input[p.pos])
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' && c != '.' && c != '-' {
			break
		}
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *parser) parseDescriptor() (Descriptor, error) {
	p.skipSpaces()

	switch p.peek() {
	case '[':
		p.pos++
		elem, err := p.parseDescriptor()
		if err != nil {
			return nil, err
		}
		if err := p.expect(']'); err != nil {
			return nil, err
		}
		return List(elem), nil
	case '{':
		p.pos++
		return p.parseRecord()
	}

	name := p.ident()
	if name == "" {
		return nil, fmt.Errorf("expected a type at %d", p.pos)
	}
	kind, ok := KindOf(name)
	if !ok {
		return nil, fmt.Errorf("unknown kind %q", name)
	}
	return Atomic{Kind: kind}, nil
}

func (p *parser) parseRecord() (Descriptor, error) {
	fields := make(map[string]Descriptor)

	p.skipSpaces()
	if p.peek() == '}' {
		p.pos++
		return Record(fields), nil
	}

	for {
		key := strings.TrimSpace(p.ident())
		if key == "" {
			return nil, fmt.Errorf("expected a field name at %d", p.pos)
		}
		if _, ok := fields[key]; ok {
			return nil, fmt.Errorf("duplicate field %q", key)
		}
		if err := p.expect(':'); err != nil {
			return nil, err
		}

		field, err := p.parseDescriptor()
		if err != nil {
			return nil, err
		}
		fields[key] = field

		p.skipSpaces()
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return Record(fields), nil
		default:
			return nil, fmt.Errorf("expected ',' or '}' at %d", p.pos)
		}
	}
}
