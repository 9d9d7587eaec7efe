package http

import (
	"encoding/json"

	"github.com/samber/lo"

	"github.com/vovakirdan/wiresignal/internal/core"
	"github.com/vovakirdan/wiresignal/internal/proto"
)

func malformed(msg string) *proto.Error {
	return &proto.Error{Code: core.ErrCodeMalformedRequest, Message: msg}
}

// inboundToCommand maps a decoded envelope onto a hub command. A non-nil
// *proto.Error is reported back to the client and nothing is submitted.
func inboundToCommand(clientID string, inbound proto.Inbound) (*core.Command, *proto.Error) {
	switch inbound.Type {
	case proto.InboundTypeJoinChannel:
		var join proto.JoinChannelData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, malformed("invalid joinChannel data")
		}
		return &core.Command{
			Kind:         core.CommandJoinChannel,
			ConnectionID: clientID,
			Channel:      join.Channel,
			DisplayName:  join.Name,
			AvatarRef:    join.Photo,
			Credential:   join.Password,
		}, nil
	case proto.InboundTypeLeaveChannel:
		var leave proto.LeaveChannelData
		if len(inbound.Data) > 0 && string(inbound.Data) != "null" {
			if err := json.Unmarshal(inbound.Data, &leave); err != nil {
				return nil, malformed("invalid leaveChannel data")
			}
		}
		return &core.Command{
			Kind:         core.CommandLeaveChannel,
			ConnectionID: clientID,
			Channel:      leave.Channel,
		}, nil
	case proto.InboundTypeSignal:
		// Undecodable signals reach the router without a target and are dropped there.
		var signal proto.SignalData
		_ = json.Unmarshal(inbound.Data, &signal)
		return &core.Command{
			Kind:         core.CommandSignal,
			ConnectionID: clientID,
			To:           signal.To,
			Data:         signal.Data,
		}, nil
	case proto.InboundTypePing:
		return &core.Command{Kind: core.CommandPing, ConnectionID: clientID}, nil
	default:
		return nil, malformed("unknown message type")
	}
}

func memberData(m core.Member) proto.MemberData {
	return proto.MemberData{SocketID: m.ID, Name: m.DisplayName, Photo: m.AvatarRef}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventConnected:
		return proto.Outbound{
			Type: proto.OutboundTypeConnected,
			Data: proto.ConnectedData{SocketID: event.ConnectionID},
		}
	case core.EventExistingMembers:
		users := lo.Map(event.Members, func(m core.Member, _ int) proto.MemberData { return memberData(m) })
		return proto.Outbound{
			Type: proto.OutboundTypeExistingMembers,
			Data: proto.ExistingMembersData{Channel: event.Channel, Users: users},
		}
	case core.EventUserJoined:
		return proto.Outbound{
			Type: proto.OutboundTypeUserJoined,
			Data: memberData(event.Member),
		}
	case core.EventUserLeft:
		return proto.Outbound{
			Type: proto.OutboundTypeUserLeft,
			Data: proto.UserLeftData{SocketID: event.ConnectionID},
		}
	case core.EventSignal:
		return proto.Outbound{
			Type: proto.OutboundTypeSignal,
			Data: proto.SignalEventData{From: event.From, Data: event.Data},
		}
	case core.EventPasswordFailed:
		return proto.Outbound{
			Type: proto.OutboundTypePasswordFailed,
			Data: proto.PasswordFailedData{Channel: event.Channel},
		}
	case core.EventPong:
		return proto.Outbound{
			Type: proto.OutboundTypePong,
			Data: proto.PongData{Timestamp: event.Timestamp.UnixMilli()},
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Data: proto.Error{Code: "unknown", Message: "unknown error"}}
		}
		return proto.Outbound{
			Type: proto.OutboundTypeError,
			Data: proto.Error{Code: event.Error.Code, Message: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeError, Data: proto.Error{Code: "unknown", Message: "unknown event"}}
	}
}
