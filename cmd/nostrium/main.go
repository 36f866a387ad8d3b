// Command nostrium is a thin demonstrator over the core nostrium
// packages: it signs an event, runs a NIP-04 or NIP-44 encrypt/decrypt
// round trip, or builds a NIP-42 auth event, prints the result, and
// exits. It owns no persistent state and no transport — it is glue
// over pkg/event, pkg/signer, pkg/nip04, pkg/nip44, and pkg/nip42.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nostrium/nostrium/pkg/bech32key"
	"github.com/nostrium/nostrium/pkg/event"
	"github.com/nostrium/nostrium/pkg/nip04"
	"github.com/nostrium/nostrium/pkg/nip42"
	"github.com/nostrium/nostrium/pkg/nip44"
	"github.com/nostrium/nostrium/pkg/signer"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "sign":
		err = runSign(os.Args[2:])
	case "nip04-encrypt":
		err = runNip04Encrypt(os.Args[2:])
	case "nip04-decrypt":
		err = runNip04Decrypt(os.Args[2:])
	case "nip44-encrypt":
		err = runNip44Encrypt(os.Args[2:])
	case "nip44-decrypt":
		err = runNip44Decrypt(os.Args[2:])
	case "nip42":
		err = runNip42(os.Args[2:])
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: nostrium <command> [args]")
	fmt.Println()
	fmt.Println("  sign <kind> <content> [tag-name:tag-value ...]  - sign an event with a prompted nsec")
	fmt.Println("  nip04-encrypt <recipient-npub-or-hex> <plaintext>  - encrypt with a prompted nsec")
	fmt.Println("  nip04-decrypt <sender-npub-or-hex> <payload>       - decrypt with a prompted nsec")
	fmt.Println("  nip44-encrypt <recipient-npub-or-hex> <plaintext>  - encrypt with a prompted nsec")
	fmt.Println("  nip44-decrypt <sender-npub-or-hex> <payload>       - decrypt with a prompted nsec")
	fmt.Println("  nip42 <relay-url> <challenge>                      - build and sign an auth event with a prompted nsec")
}

func runSign(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: sign <kind> <content> [tag-name:tag-value ...]")
	}
	kindNum, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid kind %q: %v", args[0], err)
	}
	content := args[1]
	tags, err := parseTags(args[2:])
	if err != nil {
		return err
	}

	s, err := promptSigner("nsec (or hex private key): ")
	if err != nil {
		return err
	}

	draft := event.Draft{
		PubKey:    s.PublicKey(),
		CreatedAt: event.UnixSeconds(time.Now().Unix()),
		Kind:      event.EventKind(kindNum),
		Tags:      tags,
		Content:   content,
	}
	ev, err := signer.Sign(s, draft)
	if err != nil {
		return fmt.Errorf("sign event: %v", err)
	}
	return printEvent(ev)
}

func runNip04Encrypt(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: nip04-encrypt <recipient-npub-or-hex> <plaintext>")
	}
	recipient, err := bech32key.DecodePubkey(args[0])
	if err != nil {
		return fmt.Errorf("decode recipient key: %v", err)
	}
	sec, err := promptPrivateKey("nsec (or hex private key): ")
	if err != nil {
		return err
	}
	payload, err := nip04.Encrypt(args[1], sec, recipient)
	if err != nil {
		return fmt.Errorf("encrypt: %v", err)
	}
	fmt.Println(payload)
	return nil
}

func runNip04Decrypt(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: nip04-decrypt <sender-npub-or-hex> <payload>")
	}
	sender, err := bech32key.DecodePubkey(args[0])
	if err != nil {
		return fmt.Errorf("decode sender key: %v", err)
	}
	sec, err := promptPrivateKey("nsec (or hex private key): ")
	if err != nil {
		return err
	}
	plaintext, err := nip04.Decrypt(args[1], sec, sender)
	if err != nil {
		return fmt.Errorf("decrypt: %v", err)
	}
	fmt.Println(plaintext)
	return nil
}

func runNip44Encrypt(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: nip44-encrypt <recipient-npub-or-hex> <plaintext>")
	}
	recipient, err := bech32key.DecodePubkey(args[0])
	if err != nil {
		return fmt.Errorf("decode recipient key: %v", err)
	}
	sec, err := promptPrivateKey("nsec (or hex private key): ")
	if err != nil {
		return err
	}
	convKey, err := nip44.ConversationKey(sec, recipient)
	if err != nil {
		return fmt.Errorf("derive conversation key: %v", err)
	}
	payload, err := nip44.Encrypt(args[1], convKey)
	if err != nil {
		return fmt.Errorf("encrypt: %v", err)
	}
	fmt.Println(payload)
	return nil
}

func runNip44Decrypt(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: nip44-decrypt <sender-npub-or-hex> <payload>")
	}
	sender, err := bech32key.DecodePubkey(args[0])
	if err != nil {
		return fmt.Errorf("decode sender key: %v", err)
	}
	sec, err := promptPrivateKey("nsec (or hex private key): ")
	if err != nil {
		return err
	}
	convKey, err := nip44.ConversationKey(sec, sender)
	if err != nil {
		return fmt.Errorf("derive conversation key: %v", err)
	}
	plaintext, err := nip44.Decrypt(args[1], convKey)
	if err != nil {
		return fmt.Errorf("decrypt: %v", err)
	}
	fmt.Println(plaintext)
	return nil
}

func runNip42(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: nip42 <relay-url> <challenge>")
	}
	s, err := promptSigner("nsec (or hex private key): ")
	if err != nil {
		return err
	}
	draft, err := nip42.Build(s.PublicKey(), args[0], args[1], "", 0, systemClock{}, nil)
	if err != nil {
		return fmt.Errorf("build auth draft: %v", err)
	}
	ev, err := signer.Sign(s, draft)
	if err != nil {
		return fmt.Errorf("sign auth event: %v", err)
	}
	return printEvent(ev)
}

type systemClock struct{}

func (systemClock) NowSeconds() event.UnixSeconds { return event.UnixSeconds(time.Now().Unix()) }

func parseTags(args []string) (event.Tags, error) {
	tags := make(event.Tags, 0, len(args))
	for _, a := range args {
		parts := strings.SplitN(a, ":", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("invalid tag %q, expected name:value", a)
		}
		tags = append(tags, event.Tag{parts[0], parts[1]})
	}
	return tags, nil
}

func promptSigner(prompt string) (*signer.BtcecSigner, error) {
	sec, err := promptPrivateKey(prompt)
	if err != nil {
		return nil, err
	}
	s, err := signer.NewBtcecSigner(sec)
	if err != nil {
		return nil, fmt.Errorf("build signer: %v", err)
	}
	return s, nil
}

func promptPrivateKey(prompt string) (event.PrivateKey, error) {
	raw, err := readSecret(prompt)
	if err != nil {
		return event.PrivateKey{}, err
	}
	sec, err := bech32key.DecodeNsec(strings.TrimSpace(raw))
	if err != nil {
		return event.PrivateKey{}, fmt.Errorf("decode private key: %v", err)
	}
	return sec, nil
}

// jsonEvent mirrors event.Event with NIP-01 wire field names, since the
// core Event type intentionally carries no json tags (it's not a wire
// codec, see package event's doc comment).
type jsonEvent struct {
	ID        string     `json:"id"`
	PubKey    string     `json:"pubkey"`
	CreatedAt int64      `json:"created_at"`
	Kind      int        `json:"kind"`
	Tags      [][]string `json:"tags"`
	Content   string     `json:"content"`
	Sig       string     `json:"sig"`
}

func printEvent(ev event.Event) error {
	tags := make([][]string, len(ev.Tags))
	for i, t := range ev.Tags {
		tags[i] = []string(t)
	}
	out, err := json.Marshal(jsonEvent{
		ID:        ev.ID.Hex(),
		PubKey:    ev.PubKey.Hex(),
		CreatedAt: int64(ev.CreatedAt),
		Kind:      int(ev.Kind),
		Tags:      tags,
		Content:   ev.Content,
		Sig:       ev.Sig.Hex(),
	})
	if err != nil {
		return fmt.Errorf("marshal event: %v", err)
	}
	fmt.Println(string(out))
	return nil
}
