package entity

import "time"

// Milestone codes reported by the tracking service.
const (
	MilestoneReturnCreated           = "ReturnCreated"
	MilestoneReturnReceivedByCarrier = "ReturnReceivedByCarrier"
	MilestoneReturnReceived          = "ReturnReceived"
	MilestoneReturnProcessed         = "ReturnProcessed"
)

type TrackingMilestone struct {
	Code               string `json:"code"`
	IsCurrentMilestone bool   `json:"isCurrentMilestone"`
	Location           string `json:"location,omitempty"`
}

type TrackingEvent struct {
	Code     string    `json:"code"`
	DateTime time.Time `json:"dateTime"`
	Location string    `json:"location"`
}

type Tracking struct {
	Carrier    string              `json:"carrier"`
	Milestones []TrackingMilestone `json:"milestones"`
	Events     []TrackingEvent     `json:"events"`
}

// Milestone returns the reported milestone with the given code.
func (t *Tracking) Milestone(code string) (*TrackingMilestone, bool) {
	if t == nil {
		return nil, false
	}
	for i := range t.Milestones {
		if t.Milestones[i].Code == code {
			return &t.Milestones[i], true
		}
	}
	return nil, false
}

// IsProcessed reports whether processing is the current milestone.
func (t *Tracking) IsProcessed() bool {
	m, ok := t.Milestone(MilestoneReturnProcessed)
	return ok && m.IsCurrentMilestone
}
