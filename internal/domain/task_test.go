package domain

import (
	"errors"
	"testing"
	"time"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func TestNewTask(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		wantErr     bool
		errExpected error
	}{
		{
			name:    "valid task",
			title:   "Write report",
			wantErr: false,
		},
		{
			name:        "empty title",
			title:       "",
			wantErr:     true,
			errExpected: ErrEmptyTaskTitle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := NewTask("user-1", tt.title, t0)

			if tt.wantErr {
				if err == nil {
					t.Errorf("NewTask() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errExpected != nil && err != tt.errExpected {
					t.Errorf("NewTask() error = %v, want %v", err, tt.errExpected)
				}
				return
			}

			if err != nil {
				t.Errorf("NewTask() unexpected error = %v", err)
				return
			}
			if task.IsActive() {
				t.Error("NewTask() created an active task")
			}
			if task.ID != "" {
				t.Errorf("NewTask() ID = %q, want transient", task.ID)
			}
			if task.Added != t0 {
				t.Errorf("NewTask() Added = %v, want %v", task.Added, t0)
			}
		})
	}
}

func TestTask_StartStop(t *testing.T) {
	task, _ := NewTask("user-1", "Test task", t0)

	if err := task.Start(t0.Add(time.Minute)); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !task.IsActive() {
		t.Error("Start() task should be active")
	}
	if !task.LastStarted.After(task.LastStopped) {
		t.Error("active task must have lastStarted > lastStopped")
	}

	if err := task.Start(t0.Add(2 * time.Minute)); !errors.Is(err, ErrTaskAlreadyRunning) {
		t.Errorf("Start() on running task error = %v, want %v", err, ErrTaskAlreadyRunning)
	}

	if !task.Stop(t0.Add(11 * time.Minute)) {
		t.Error("Stop() on running task should report stopped")
	}
	if task.IsActive() {
		t.Error("Stop() task should be idle")
	}
	if task.Duration != 10*time.Minute {
		t.Errorf("Stop() duration = %v, want %v", task.Duration, 10*time.Minute)
	}
}

func TestTask_StopIdempotent(t *testing.T) {
	task, _ := NewTask("user-1", "Test task", t0)
	_ = task.Start(t0.Add(time.Minute))
	task.Stop(t0.Add(2 * time.Minute))

	before := task.Duration
	if task.Stop(t0.Add(3 * time.Minute)) {
		t.Error("Stop() on idle task should report not active")
	}
	if task.Duration != before {
		t.Errorf("second Stop() changed duration: %v -> %v", before, task.Duration)
	}
}

func TestTask_RepeatedCycles(t *testing.T) {
	task, _ := NewTask("user-1", "Test task", t0)

	deltas := []time.Duration{5 * time.Second, 90 * time.Second, time.Hour}
	now := t0
	var want time.Duration
	for _, delta := range deltas {
		now = now.Add(time.Minute)
		if err := task.Start(now); err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		now = now.Add(delta)
		task.Stop(now)
		want += delta
	}

	if task.Duration != want {
		t.Errorf("Duration = %v, want %v", task.Duration, want)
	}
}

func TestTask_EffectiveDuration(t *testing.T) {
	task, _ := NewTask("user-1", "Test task", t0)
	task.Duration = 30 * time.Second

	if got := task.EffectiveDuration(t0.Add(time.Hour)); got != 30*time.Second {
		t.Errorf("EffectiveDuration() idle = %v, want %v", got, 30*time.Second)
	}

	_ = task.Start(t0.Add(time.Minute))
	if got := task.EffectiveDuration(t0.Add(time.Minute + 20*time.Second)); got != 50*time.Second {
		t.Errorf("EffectiveDuration() running = %v, want %v", got, 50*time.Second)
	}

	// clock behind the start time: open interval contributes zero
	if got := task.EffectiveDuration(t0); got != 30*time.Second {
		t.Errorf("EffectiveDuration() with skewed clock = %v, want %v", got, 30*time.Second)
	}
}

func TestTask_StopClockSkew(t *testing.T) {
	task, _ := NewTask("user-1", "Test task", t0)
	_ = task.Start(t0.Add(time.Hour))

	if !task.Stop(t0) {
		t.Error("Stop() with skewed clock should still stop the task")
	}
	if task.Duration != 0 {
		t.Errorf("Stop() with skewed clock duration = %v, want 0", task.Duration)
	}
	if task.IsActive() {
		t.Error("Stop() with skewed clock left the task active")
	}
}

func TestTask_Finish(t *testing.T) {
	t.Run("running task is stopped first", func(t *testing.T) {
		task, _ := NewTask("user-1", "Test task", t0)
		_ = task.Start(t0.Add(time.Minute))

		task.Finish(t0.Add(2 * time.Minute))

		if !task.Finished {
			t.Error("Finish() should set finished")
		}
		if task.IsActive() {
			t.Error("Finish() should stop the task")
		}
		if task.Duration != time.Minute {
			t.Errorf("Finish() duration = %v, want %v", task.Duration, time.Minute)
		}
		if task.Archived {
			t.Error("Finish() must not archive")
		}
	})

	t.Run("idle task keeps its duration", func(t *testing.T) {
		task, _ := NewTask("user-1", "Test task", t0)
		task.Duration = 42 * time.Second

		task.Finish(t0.Add(time.Minute))

		if !task.Finished {
			t.Error("Finish() should set finished")
		}
		if task.Duration != 42*time.Second {
			t.Errorf("Finish() duration = %v, want %v", task.Duration, 42*time.Second)
		}
	})
}

func TestTask_Archive(t *testing.T) {
	task, _ := NewTask("user-1", "Test task", t0)

	if err := task.Archive(); !errors.Is(err, ErrTaskNotFinished) {
		t.Errorf("Archive() on open task error = %v, want %v", err, ErrTaskNotFinished)
	}
	if task.Archived {
		t.Error("failed Archive() must not set archived")
	}

	task.Finish(t0.Add(time.Minute))
	if err := task.Archive(); err != nil {
		t.Errorf("Archive() on finished task error = %v", err)
	}
	if !task.Archived || !task.Finished {
		t.Error("archived task must stay finished")
	}

	task.Unarchive()
	if task.Archived {
		t.Error("Unarchive() should clear archived")
	}
	if !task.Finished {
		t.Error("Unarchive() must not clear finished")
	}
}

func TestTask_StartFinished(t *testing.T) {
	task, _ := NewTask("user-1", "Test task", t0)
	task.Finish(t0.Add(time.Minute))

	if err := task.Start(t0.Add(2 * time.Minute)); !errors.Is(err, ErrTaskFinished) {
		t.Errorf("Start() on finished task error = %v, want %v", err, ErrTaskFinished)
	}
}

func TestTask_Datelines(t *testing.T) {
	task, _ := NewTask("user-1", "Test task", t0)

	live := t0.Add(24 * time.Hour)
	dead := t0.Add(48 * time.Hour)

	if err := task.SetLiveline(&live); err != nil {
		t.Fatalf("SetLiveline() error = %v", err)
	}
	if err := task.SetDeadline(&dead); err != nil {
		t.Fatalf("SetDeadline() error = %v", err)
	}

	early := t0.Add(12 * time.Hour)
	if err := task.SetDeadline(&early); !errors.Is(err, ErrDeadlineBeforeLiveline) {
		t.Errorf("SetDeadline() before liveline error = %v, want %v", err, ErrDeadlineBeforeLiveline)
	}
	if !task.Deadline.Equal(dead) {
		t.Error("rejected SetDeadline() must not modify the task")
	}

	late := t0.Add(72 * time.Hour)
	if err := task.SetLiveline(&late); !errors.Is(err, ErrDeadlineBeforeLiveline) {
		t.Errorf("SetLiveline() after deadline error = %v, want %v", err, ErrDeadlineBeforeLiveline)
	}
}

func TestTask_Status(t *testing.T) {
	now := t0
	soon := now.Add(12 * time.Hour)
	past := now.Add(-time.Hour)
	farFuture := now.Add(48 * time.Hour)

	tests := []struct {
		name string
		prep func(*Task)
		want TaskStatus
	}{
		{
			name: "archived wins over everything",
			prep: func(task *Task) {
				task.Finished = true
				task.Archived = true
				task.Deadline = &past
			},
			want: StatusArchived,
		},
		{
			name: "finished wins over overdue",
			prep: func(task *Task) {
				task.Finished = true
				task.Deadline = &past
			},
			want: StatusFinished,
		},
		{
			name: "past deadline is overdue",
			prep: func(task *Task) { task.Deadline = &past },
			want: StatusOverdue,
		},
		{
			name: "deadline within a day is due today",
			prep: func(task *Task) { task.Deadline = &soon },
			want: StatusDueToday,
		},
		{
			name: "liveline more than a day out is future",
			prep: func(task *Task) { task.Liveline = &farFuture },
			want: StatusFuture,
		},
		{
			name: "no dates is normal",
			prep: func(task *Task) {},
			want: StatusNormal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, _ := NewTask("user-1", "Test task", t0)
			task.ID = "task-1"
			tt.prep(task)

			got, err := task.Status(now)
			if err != nil {
				t.Fatalf("Status() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Status() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("transient task has no status", func(t *testing.T) {
		task, _ := NewTask("user-1", "Test task", t0)
		if _, err := task.Status(now); !errors.Is(err, ErrTaskTransient) {
			t.Errorf("Status() on transient task error = %v, want %v", err, ErrTaskTransient)
		}
	})
}
