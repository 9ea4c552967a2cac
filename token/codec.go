package token

import (
	"encoding/json"
	"fmt"
	"time"
)

// payload is the kind-tagged wire shape shared by all variants.
type payload struct {
	Kind  string            `json:"kind"`
	Raw   string            `json:"raw,omitempty"`
	EOL   bool              `json:"eol,omitempty"`
	At    string            `json:"at,omitempty"`
	Vec   []float32         `json:"vec,omitempty"`
	Match float64           `json:"match,omitempty"`
	Parts []json.RawMessage `json:"parts,omitempty"`
}

// Encode serializes t into a lossless kind-tagged JSON payload.
func Encode(t Token) ([]byte, error) {
	p, err := toPayload(t)
	if err != nil {
		return nil, err
	}
	return json.Marshal(p)
}

func toPayload(t Token) (payload, error) {
	switch v := t.(type) {
	case Symbol:
		return payload{Kind: KindSymbol.String(), Raw: v.raw, EOL: v.eol}, nil
	case Timestamp:
		return payload{Kind: KindTimestamp.String(), At: v.at.Format(time.RFC3339Nano)}, nil
	case Embedded:
		return payload{Kind: KindEmbedded.String(), Raw: v.raw, EOL: v.eol, Vec: v.vec, Match: v.match}, nil
	case Composite:
		p := payload{Kind: KindComposite.String(), Parts: make([]json.RawMessage, 0, len(v.parts))}
		for i, part := range v.parts {
			raw, err := Encode(part)
			if err != nil {
				return payload{}, fmt.Errorf("composite part %d: %w", i, err)
			}
			p.Parts = append(p.Parts, raw)
		}
		return p, nil
	default:
		return payload{}, fmt.Errorf("%w: %T", ErrUnknownKind, t)
	}
}

// Decode is the inverse of Encode.
func Decode(data []byte) (Token, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	kind, err := ParseKind(p.Kind)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindSymbol:
		return Symbol{raw: p.Raw, eol: p.EOL}, nil
	case KindTimestamp:
		at, err := time.Parse(time.RFC3339Nano, p.At)
		if err != nil {
			return nil, fmt.Errorf("%w: timestamp %q: %v", ErrBadPayload, p.At, err)
		}
		return Timestamp{at: at}, nil
	case KindEmbedded:
		match := p.Match
		if match <= 0 || match > MaxSimilarity {
			match = DefaultEmbeddingMatch
		}
		vec := make([]float32, len(p.Vec))
		copy(vec, p.Vec)
		return Embedded{raw: p.Raw, eol: p.EOL, vec: vec, match: match}, nil
	default: // KindComposite
		parts := make([]Token, 0, len(p.Parts))
		for i, raw := range p.Parts {
			part, err := Decode(raw)
			if err != nil {
				return nil, fmt.Errorf("composite part %d: %w", i, err)
			}
			parts = append(parts, part)
		}
		return Composite{parts: parts}, nil
	}
}
