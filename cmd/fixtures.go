package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"hybridsched/core/model"
)

// planInputTask mirrors the tasks row shape of spec §6.
type planInputTask struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	UserID         int      `json:"user_id"`
	RemainingHours int      `json:"remaining_hours"`
	PriorityScore  *float64 `json:"priority_score"`
}

// planInputSlot mirrors the calendar_slots row shape of spec §6.
type planInputSlot struct {
	TaskID    int `json:"task_id"`
	DayOfWeek int `json:"dayofweek"`
	HourFrom  int `json:"hour_from"`
	HourTo    int `json:"hour_to"`
}

// planInputLeave mirrors the leaves row shape of spec §6.
type planInputLeave struct {
	TaskID   int    `json:"task_id"`
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
}

// planInput is the whole invocation input document: three tabular inputs
// plus the planning start date.
type planInput struct {
	Tasks         []planInputTask  `json:"tasks"`
	CalendarSlots []planInputSlot  `json:"calendar_slots"`
	Leaves        []planInputLeave `json:"leaves"`
	StartDate     string           `json:"start_date"`
}

func loadPlanInput(r io.Reader) (planInput, error) {
	var in planInput
	dec := json.NewDecoder(r)
	if err := dec.Decode(&in); err != nil {
		return planInput{}, fmt.Errorf("decode input document: %w", err)
	}
	return in, nil
}

func (in planInput) toDomain() ([]model.Task, []model.CalendarSlot, []model.Leave, model.Date, error) {
	tasks := make([]model.Task, 0, len(in.Tasks))
	for _, t := range in.Tasks {
		priority := model.DefaultPriorityScore
		if t.PriorityScore != nil {
			priority = *t.PriorityScore
		}
		tasks = append(tasks, model.Task{
			ID:             t.ID,
			Name:           t.Name,
			ResourceID:     t.UserID,
			RemainingHours: t.RemainingHours,
			PriorityScore:  priority,
		})
	}

	slots := make([]model.CalendarSlot, 0, len(in.CalendarSlots))
	for _, s := range in.CalendarSlots {
		slots = append(slots, model.CalendarSlot{
			TaskID:    s.TaskID,
			DayOfWeek: s.DayOfWeek,
			HourFrom:  s.HourFrom,
			HourTo:    s.HourTo,
		})
	}

	leaves := make([]model.Leave, 0, len(in.Leaves))
	for _, l := range in.Leaves {
		from, err := model.ParseDate(l.DateFrom)
		if err != nil {
			return nil, nil, nil, model.Date{}, err
		}
		to, err := model.ParseDate(l.DateTo)
		if err != nil {
			return nil, nil, nil, model.Date{}, err
		}
		leaves = append(leaves, model.Leave{TaskID: l.TaskID, DateFrom: from, DateTo: to})
	}

	now := time.Now()
	startDate := model.NewDate(now.Year(), now.Month(), now.Day())
	if in.StartDate != "" {
		var err error
		startDate, err = model.ParseDate(in.StartDate)
		if err != nil {
			return nil, nil, nil, model.Date{}, err
		}
	}

	return tasks, slots, leaves, startDate, nil
}
