package core

import (
	"encoding/json"
	"strings"

	"github.com/pion/ice/v4"
	"github.com/pion/sdp/v3"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"
)

const (
	payloadKindOpaque      = "opaque"
	payloadKindDescription = "description"
	payloadKindCandidate   = "candidate"
)

// payloadInfo is what the router could tell about a relayed payload.
// Used for logging only; the payload itself is forwarded untouched.
type payloadInfo struct {
	Kind          string
	SDPType       string
	MediaSections int
	CandidateType string
}

func (p payloadInfo) MarshalZerologObject(e *zerolog.Event) {
	e.Str("kind", p.Kind)
	if p.SDPType != "" {
		e.Str("sdp_type", p.SDPType)
		e.Int("media_sections", p.MediaSections)
	}
	if p.CandidateType != "" {
		e.Str("candidate_type", p.CandidateType)
	}
}

// inspectPayload looks for the optional fields browsers put in negotiation
// messages. Any shape it does not recognise is reported as opaque.
func inspectPayload(raw json.RawMessage) payloadInfo {
	info := payloadInfo{Kind: payloadKindOpaque}

	var fields map[string]json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &fields) != nil {
		return info
	}

	var typ string
	_ = json.Unmarshal(fields["type"], &typ)

	if sdpType := webrtc.NewSDPType(typ); sdpType != webrtc.SDPTypeUnknown {
		info.Kind = payloadKindDescription
		info.SDPType = sdpType.String()
		info.MediaSections = countMediaSections(fields["sdp"])
		return info
	}

	if rawCandidate, ok := fields["candidate"]; ok {
		info.Kind = payloadKindCandidate
		info.CandidateType = candidateType(rawCandidate)
		return info
	}

	// Some clients nest the description one level down: {"sdp": {"type": ..., "sdp": ...}}.
	var nested webrtc.SessionDescription
	if err := json.Unmarshal(fields["sdp"], &nested); err == nil && nested.Type != webrtc.SDPTypeUnknown {
		info.Kind = payloadKindDescription
		info.SDPType = nested.Type.String()
		info.MediaSections = mediaSections(nested.SDP)
	}

	return info
}

func countMediaSections(raw json.RawMessage) int {
	var body string
	if err := json.Unmarshal(raw, &body); err != nil {
		return 0
	}
	return mediaSections(body)
}

func mediaSections(body string) int {
	if body == "" {
		return 0
	}
	var desc sdp.SessionDescription
	if err := desc.UnmarshalString(body); err != nil {
		return 0
	}
	return len(desc.MediaDescriptions)
}

// candidateType accepts either a bare candidate line or an RTCIceCandidateInit object.
func candidateType(raw json.RawMessage) string {
	var line string
	if err := json.Unmarshal(raw, &line); err != nil {
		var init webrtc.ICECandidateInit
		if err := json.Unmarshal(raw, &init); err != nil {
			return ""
		}
		line = init.Candidate
	}

	line = strings.TrimPrefix(strings.TrimSpace(line), "candidate:")
	if line == "" {
		return ""
	}
	c, err := ice.UnmarshalCandidate(line)
	if err != nil {
		return ""
	}
	return c.Type().String()
}
