// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package message

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📝 Encoder writes messages as JSON lines
type Encoder struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewEncoder creates an encoder writing to w
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{enc: json.NewEncoder(w)}
}

// Encode writes one message followed by a newline
func (e *Encoder) Encode(v any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enc.Encode(v); err != nil {
		return errors.Errorf("encoding message: %w", err)
	}
	return nil
}

func (e *Encoder) SessionStarted(ctx context.Context, msg SessionStarted) {
	if err := e.Encode(msg); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("event", string(msg.Event)).Msg("sending message")
	}
}

func (e *Encoder) CountUpdate(ctx context.Context, msg CountUpdate) {
	if err := e.Encode(msg); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("event", string(msg.Event)).Msg("sending message")
	}
}

// ErrUnsupported marks a well-formed message the host cannot act on. The
// stream stays usable after it.
var ErrUnsupported = errors.Base("unsupported message")

// 📖 Decoder reads inbound messages from a JSON stream
type Decoder struct {
	dec *json.Decoder
}

// NewDecoder creates a decoder reading from r
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{dec: json.NewDecoder(r)}
}

type envelope struct {
	Event Event `json:"event"`
}

// Decode reads the next message. It returns io.EOF once the stream is exhausted.
// The only inbound message is applyRules; anything else is an error.
func (d *Decoder) Decode() (ApplyRules, error) {
	var raw json.RawMessage
	if err := d.dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return ApplyRules{}, io.EOF
		}
		return ApplyRules{}, errors.Errorf("reading message: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return ApplyRules{}, errors.Errorf("%w: reading event: %s", ErrUnsupported, err.Error())
	}

	switch env.Event {
	case EventApplyRules:
		var msg ApplyRules
		if err := json.Unmarshal(raw, &msg); err != nil {
			return ApplyRules{}, errors.Errorf("%w: decoding %s: %s", ErrUnsupported, env.Event, err.Error())
		}
		return msg, nil
	case "":
		return ApplyRules{}, errors.Errorf("%w: message has no event", ErrUnsupported)
	default:
		return ApplyRules{}, errors.Errorf("%w: unknown event %q", ErrUnsupported, env.Event)
	}
}
