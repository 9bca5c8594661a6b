package discord

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
)

type InteractionType int

const (
	InteractionTypePing               InteractionType = 1
	InteractionTypeApplicationCommand InteractionType = 2
)

type InteractionResponseType int

const (
	InteractionResponsePong                     InteractionResponseType = 1
	InteractionResponseChannelMessageWithSource InteractionResponseType = 4
)

const MessageFlagEphemeral = 1 << 6

// Interaction is the payload Discord posts to the interactions endpoint
type Interaction struct {
	ID            string           `json:"id"`
	ApplicationID string           `json:"application_id"`
	Type          InteractionType  `json:"type"`
	Data          *InteractionData `json:"data,omitempty"`
	Member        *Member          `json:"member,omitempty"`
	User          *User            `json:"user,omitempty"`
	Token         string           `json:"token"`
}

type InteractionData struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type int    `json:"type"`
}

type Member struct {
	User *User `json:"user,omitempty"`
}

// UserID returns the invoking user. Guild interactions carry it on the member,
// DMs on the user.
func (i *Interaction) UserID() string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

type InteractionResponse struct {
	Type InteractionResponseType `json:"type"`
	Data *ResponseData           `json:"data,omitempty"`
}

type ResponseData struct {
	Content string  `json:"content,omitempty"`
	Flags   int     `json:"flags,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

type Embed struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Color       int    `json:"color,omitempty"`
}

// Message is a plain channel message response
func Message(content string) *InteractionResponse {
	return &InteractionResponse{
		Type: InteractionResponseChannelMessageWithSource,
		Data: &ResponseData{Content: content},
	}
}

// ParsePublicKey decodes the hex encoded application public key.
func ParsePublicKey(hexKey string) (ed25519.PublicKey, error) {
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decode discord public key: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("discord public key must be %d bytes, got %d", ed25519.PublicKeySize, len(raw))
	}
	return ed25519.PublicKey(raw), nil
}

// VerifyInteraction checks the x-signature-ed25519 signature Discord computes over
// the x-signature-timestamp value followed by the raw body.
func VerifyInteraction(publicKey ed25519.PublicKey, signatureHex, timestamp string, body []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize {
		return false
	}
	sig, err := hex.DecodeString(signatureHex)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}
	msg := make([]byte, 0, len(timestamp)+len(body))
	msg = append(msg, timestamp...)
	msg = append(msg, body...)
	return ed25519.Verify(publicKey, msg, sig)
}
