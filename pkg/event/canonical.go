package event

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nostrium/nostrium/pkg/crypto"
	"github.com/nostrium/nostrium/pkg/nerr"
)

// Draft is an unsigned event body: everything that feeds the NIP-01
// canonical array except the signature, which only a Signer can
// produce. ComputeID computes the id; a concrete Signer then signs it.
type Draft struct {
	PubKey    PublicKey
	CreatedAt UnixSeconds
	Kind      EventKind
	Tags      Tags
	Content   string
}

// ComputeID renders the NIP-01 canonical array
// [0,"<pubkey>",<created_at>,<kind>,<tags>,"<content>"] and returns its
// SHA-256. It refuses (returns InvalidInput) to hash a pubkey, content,
// or tag element that contains a raw control byte (0x00-0x1F) other
// than the five NIP-01 defines escapes for (\n \r \t \b \f), since NIP-01 is silent on
// how other clients would escape such a byte and a silent mismatch
// there would desynchronize ids across implementations.
func (d Draft) ComputeID() (EventId, error) {
	var id EventId
	canon, err := d.canonicalBytes()
	if err != nil {
		return id, err
	}
	id = crypto.SHA256(canon)
	return id, nil
}

func (d Draft) canonicalBytes() ([]byte, error) {
	pubkeyHex := d.PubKey.Hex()
	if err := checkControlBytes("pubkey", pubkeyHex); err != nil {
		return nil, err
	}
	if err := checkControlBytes("content", d.Content); err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("[0,")
	b.WriteString(strconv.Quote(pubkeyHex))
	b.WriteByte(',')
	b.WriteString(strconv.FormatInt(int64(d.CreatedAt), 10))
	b.WriteByte(',')
	b.WriteString(strconv.FormatUint(uint64(d.Kind), 10))
	b.WriteByte(',')
	if err := writeTags(&b, d.Tags); err != nil {
		return nil, err
	}
	b.WriteByte(',')
	b.WriteString(encodeCanonicalString(d.Content))
	b.WriteByte(']')
	return []byte(b.String()), nil
}

func writeTags(b *strings.Builder, tags Tags) error {
	b.WriteByte('[')
	for i, tag := range tags {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('[')
		for j, elem := range tag {
			if j > 0 {
				b.WriteByte(',')
			}
			if err := checkControlBytes(fmt.Sprintf("tags[%d][%d]", i, j), elem); err != nil {
				return err
			}
			b.WriteString(encodeCanonicalString(elem))
		}
		b.WriteByte(']')
	}
	b.WriteByte(']')
	return nil
}

// checkControlBytes rejects any byte in 0x00-0x1F other than the five
// control bytes NIP-01 defines an escape for (\n \r \t \b \f).
func checkControlBytes(field, s string) error {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 {
			continue
		}
		switch c {
		case '\n', '\r', '\t', '\b', '\f':
			continue
		default:
			return &nerr.InvalidInput{
				Name:     field,
				Expected: "no unescaped control bytes other than \\n \\r \\t \\b \\f",
				Actual:   fmt.Sprintf("0x%02x at byte %d", c, i),
			}
		}
	}
	return nil
}

// encodeCanonicalString renders s as a JSON string literal escaping
// exactly \n \" \\ \r \t \b \f and passing every other byte through
// verbatim, per the NIP-01 canonical byte contract (not a general
// JSON string encoder — it does not escape non-ASCII or U+2028/2029).
func encodeCanonicalString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\n':
			b.WriteString(`\n`)
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// RecomputeID recomputes the id from e's own fields, independent of
// signature verification; callers compare the result with e.ID.
func RecomputeID(e Event) (EventId, error) {
	d := Draft{PubKey: e.PubKey, CreatedAt: e.CreatedAt, Kind: e.Kind, Tags: e.Tags, Content: e.Content}
	return d.ComputeID()
}
