package websocket

import (
	"github.com/daniel-caso-github/realtime-alerting-system/internal/application/dto"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
)

// AlertPublisher pushes decision-core lifecycle events to connected
// dashboard clients over the hub, independent of the async event-bus
// audit trail. Every alert is also broadcast on its own channel
// (the alert's component, when set) so a client can subscribe to a
// single component instead of the global firehose.
type AlertPublisher struct {
	hub *Hub
}

// NewAlertPublisher creates a new alert publisher.
func NewAlertPublisher(hub *Hub) *AlertPublisher {
	return &AlertPublisher{
		hub: hub,
	}
}

// PublishAlertCreated broadcasts a new alert to all clients.
func (p *AlertPublisher) PublishAlertCreated(alert *entity.Alert) {
	p.broadcast(alert, NewAlertCreatedMessage(dto.AlertFromEntity(alert)))
}

// PublishAlertAcknowledged broadcasts an acknowledged alert to all clients.
func (p *AlertPublisher) PublishAlertAcknowledged(alert *entity.Alert) {
	p.broadcast(alert, NewAlertAcknowledgedMessage(dto.AlertFromEntity(alert)))
}

// PublishAlertResolved broadcasts a resolved alert to all clients.
func (p *AlertPublisher) PublishAlertResolved(alert *entity.Alert) {
	p.broadcast(alert, NewAlertResolvedMessage(dto.AlertFromEntity(alert)))
}

// PublishAlertEscalated broadcasts an escalated alert to all clients.
func (p *AlertPublisher) PublishAlertEscalated(alert *entity.Alert) {
	p.broadcast(alert, NewAlertEscalatedMessage(dto.AlertFromEntity(alert)))
}

// PublishAlertDeleted broadcasts a deleted alert to all clients.
func (p *AlertPublisher) PublishAlertDeleted(alertID string) {
	p.hub.Broadcast(NewAlertDeletedMessage(alertID))
}

// PublishApprovalRequested broadcasts a new approval request.
func (p *AlertPublisher) PublishApprovalRequested(request *entity.ApprovalRequest) {
	msg := NewApprovalRequestedMessage(dto.ApprovalRequestFromEntity(request))
	p.hub.Broadcast(msg)
	p.hub.BroadcastToChannel(request.IssueID, msg)
}

// PublishApprovalApproved broadcasts an approved request.
func (p *AlertPublisher) PublishApprovalApproved(request *entity.ApprovalRequest) {
	msg := NewApprovalApprovedMessage(dto.ApprovalRequestFromEntity(request))
	p.hub.Broadcast(msg)
	p.hub.BroadcastToChannel(request.IssueID, msg)
}

// PublishApprovalRejected broadcasts a rejected request.
func (p *AlertPublisher) PublishApprovalRejected(request *entity.ApprovalRequest) {
	msg := NewApprovalRejectedMessage(dto.ApprovalRequestFromEntity(request))
	p.hub.Broadcast(msg)
	p.hub.BroadcastToChannel(request.IssueID, msg)
}

// PublishResolutionSelected broadcasts a newly selected resolution.
func (p *AlertPublisher) PublishResolutionSelected(resolution *entity.Resolution) {
	msg := NewResolutionSelectedMessage(dto.ResolutionFromEntity(resolution))
	p.hub.Broadcast(msg)
	p.hub.BroadcastToChannel(resolution.IssueID, msg)
}

func (p *AlertPublisher) broadcast(alert *entity.Alert, msg Message) {
	p.hub.Broadcast(msg)
	if alert.Component != "" {
		p.hub.BroadcastToChannel(alert.Component, msg)
	}
}
