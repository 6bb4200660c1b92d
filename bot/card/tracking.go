package card

import (
	"fmt"
	"sort"

	"ReturnsAgent/entity"
)

type MilestoneStatus string

const (
	MilestoneCurrent MilestoneStatus = "current"
	MilestoneDone    MilestoneStatus = "done"
	MilestonePending MilestoneStatus = "pending"
)

const eventTimeLayout = "2006-01-02 15:04"

var milestoneOrder = []struct {
	code  string
	label string
}{
	{entity.MilestoneReturnCreated, "Created"},
	{entity.MilestoneReturnReceivedByCarrier, "Received by carrier"},
	{entity.MilestoneReturnReceived, "Received"},
	{entity.MilestoneReturnProcessed, "Processed"},
}

var milestoneIcons = map[MilestoneStatus]string{
	MilestoneCurrent: "https://cdn-icons-png.flaticon.com/512/14035/14035769.png",
	MilestoneDone:    "https://cdn-icons-png.flaticon.com/512/9426/9426997.png",
	MilestonePending: "https://cdn-icons-png.flaticon.com/512/5720/5720434.png",
}

// EventDescriptions maps carrier event codes to display text.
var EventDescriptions = map[string]string{
	"CODE1": "Return created",
	"CODE2": "Return arrived at return center",
	"CODE3": "Return processed",
}

// Milestone is one step of the fixed progress bar.
type Milestone struct {
	Label  string
	Status MilestoneStatus
}

// Milestones resolves the four fixed milestones against the reported ones.
// A reported milestone with a location is done; once processing is current
// every other milestone counts as done.
func Milestones(t *entity.Tracking) []Milestone {
	processed := t.IsProcessed()
	out := make([]Milestone, 0, len(milestoneOrder))
	for _, m := range milestoneOrder {
		status := MilestonePending
		reported, ok := t.Milestone(m.code)
		if (ok && reported.Location != "") || processed {
			status = MilestoneDone
		}
		if ok && reported.IsCurrentMilestone {
			status = MilestoneCurrent
		}
		out = append(out, Milestone{Label: m.label, Status: status})
	}
	return out
}

// TrackingProgress renders the progress of a return order. Events are listed
// oldest first whatever order the carrier reported them in.
func TrackingProgress(t *entity.Tracking, returnOrderNumber string) *Card {
	progress := Element{Type: "ColumnSet"}
	for _, m := range Milestones(t) {
		weight := "Default"
		if m.Status == MilestoneCurrent {
			weight = "Bolder"
		}
		progress.Columns = append(progress.Columns, Column{
			Type:  "Column",
			Width: "auto",
			Items: []Element{
				{Type: "Image", URL: milestoneIcons[m.Status], Size: "Small", Style: "Person", HorizontalAlignment: "Center"},
				{Type: "TextBlock", Text: m.Label, Weight: weight, HorizontalAlignment: "Center"},
			},
		})
	}

	c := newCard(
		heading(fmt.Sprintf("Return %s shipping progress", returnOrderNumber), "Large"),
		heading(fmt.Sprintf("Carrier: %s", t.Carrier), "Medium"),
		progress,
		heading("Events", "Medium"),
	)
	events := append([]entity.TrackingEvent(nil), t.Events...)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].DateTime.Before(events[j].DateTime)
	})
	for _, e := range events {
		desc, ok := EventDescriptions[e.Code]
		if !ok {
			desc = e.Code
		}
		c.Body = append(c.Body, textBlock(fmt.Sprintf("%s - %s - %s", desc, e.DateTime.Format(eventTimeLayout), e.Location)))
	}
	return c
}
