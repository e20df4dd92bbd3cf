package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dodunsoft/billing_backend/config"
	"github.com/dodunsoft/billing_backend/utils"
	"gorm.io/gorm"
)

// MeetingActionItem is one follow-up from a meeting, addressed by its
// position within the meeting.
type MeetingActionItem struct {
	ID          int              `gorm:"primaryKey" json:"id"`
	MeetingId   int              `gorm:"not null;index" json:"meeting_id"`
	Position    int              `gorm:"not null" json:"position"`
	Description string           `gorm:"size:255;not null" json:"description" binding:"required"`
	Owner       string           `gorm:"size:100" json:"owner"`
	DueDate     *time.Time       `json:"due_date"`
	Status      ActionItemStatus `gorm:"size:15;not null;default:OPEN" json:"status"`
}

// ClientMeeting is a lightweight meeting log entry with free-form remarks
// and tracked action items. No financial effect.
type ClientMeeting struct {
	ID           int                 `gorm:"primaryKey" json:"id"`
	ClientId     int                 `gorm:"not null;index" json:"client_id"`
	MeetingDate  time.Time           `gorm:"not null;index" json:"meeting_date"`
	Title        string              `gorm:"size:150" json:"title"`
	Attendees    []string            `gorm:"serializer:json" json:"attendees"`
	Remarks      string              `gorm:"size:2000" json:"remarks"`
	Summary      string              `gorm:"size:1000" json:"summary"`
	ActionItems  []MeetingActionItem `gorm:"foreignKey:MeetingId" json:"action_items"`
	NextFollowUp *time.Time          `json:"next_follow_up"`
	CreatedAt    time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewMeetingActionItem struct {
	Description string           `json:"description" binding:"required"`
	Owner       string           `json:"owner"`
	DueDate     *time.Time       `json:"due_date"`
	Status      ActionItemStatus `json:"status"`
}

type NewClientMeeting struct {
	MeetingDate  *time.Time             `json:"meeting_date"`
	Title        string                 `json:"title"`
	Attendees    []string               `json:"attendees"`
	Remarks      string                 `json:"remarks"`
	Summary      string                 `json:"summary"`
	ActionItems  []NewMeetingActionItem `json:"action_items"`
	NextFollowUp *time.Time             `json:"next_follow_up"`
}

type UpdateMeetingActionItem struct {
	Description *string           `json:"description"`
	Owner       *string           `json:"owner"`
	DueDate     *time.Time        `json:"due_date"`
	Status      *ActionItemStatus `json:"status"`
}

func AddClientMeeting(ctx context.Context, clientId int, input *NewClientMeeting) (*ClientMeeting, error) {
	if err := utils.ValidateInput(input); err != nil {
		return nil, err
	}
	if _, err := GetClient(ctx, clientId); err != nil {
		return nil, err
	}
	meetingDate := time.Now()
	if input.MeetingDate != nil {
		meetingDate = *input.MeetingDate
	}
	meeting := ClientMeeting{
		ClientId:     clientId,
		MeetingDate:  meetingDate,
		Title:        input.Title,
		Attendees:    input.Attendees,
		Remarks:      input.Remarks,
		Summary:      input.Summary,
		NextFollowUp: input.NextFollowUp,
	}
	for i, item := range input.ActionItems {
		status := item.Status
		if status == "" {
			status = ActionItemStatusOpen
		}
		meeting.ActionItems = append(meeting.ActionItems, MeetingActionItem{
			Position:    i,
			Description: item.Description,
			Owner:       item.Owner,
			DueDate:     item.DueDate,
			Status:      status,
		})
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&meeting).Error; err != nil {
		return nil, err
	}
	return &meeting, nil
}

// MatchesMeetingQuery reports whether q matches the meeting's title,
// remarks, summary or any attendee, case-insensitively. Empty q matches.
func (m *ClientMeeting) MatchesMeetingQuery(q string) bool {
	q = strings.TrimSpace(strings.ToLower(q))
	if q == "" {
		return true
	}
	for _, field := range []string{m.Title, m.Remarks, m.Summary} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	for _, attendee := range m.Attendees {
		if strings.Contains(strings.ToLower(attendee), q) {
			return true
		}
	}
	return false
}

// ListClientMeetings returns a client's meetings inside the optional
// [from, to] window matching the optional search string, latest first.
func ListClientMeetings(ctx context.Context, clientId int, from *time.Time, to *time.Time, q string) ([]ClientMeeting, error) {
	if _, err := GetClient(ctx, clientId); err != nil {
		return nil, err
	}
	db := config.GetDB()
	query := db.WithContext(ctx).
		Where("client_id = ?", clientId).
		Preload("ActionItems")
	if from != nil {
		query = query.Where("meeting_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("meeting_date <= ?", *to)
	}
	var rows []ClientMeeting
	if err := query.Order("meeting_date DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	if q == "" {
		return rows, nil
	}
	matched := rows[:0]
	for i := range rows {
		if rows[i].MatchesMeetingQuery(q) {
			matched = append(matched, rows[i])
		}
	}
	return matched, nil
}

// PatchMeetingActionItem updates one action item, addressed by meeting and
// position.
func PatchMeetingActionItem(ctx context.Context, clientId int, meetingId int, position int, input *UpdateMeetingActionItem) (*MeetingActionItem, error) {
	db := config.GetDB()

	var meeting ClientMeeting
	err := db.WithContext(ctx).
		Where("client_id = ?", clientId).
		First(&meeting, meetingId).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError(utils.CodeMeetingNotFound, "meeting not found")
		}
		return nil, err
	}

	var item MeetingActionItem
	err = db.WithContext(ctx).
		Where("meeting_id = ? AND position = ?", meetingId, position).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError(utils.CodeActionItemNotFound, "action item not found")
		}
		return nil, err
	}

	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Owner != nil {
		item.Owner = *input.Owner
	}
	if input.DueDate != nil {
		item.DueDate = input.DueDate
	}
	if input.Status != nil {
		item.Status = *input.Status
	}
	if err := db.WithContext(ctx).Save(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}
