package memory

import (
	"github.com/secmon-lab/pulseboard/pkg/domain/interfaces"
)

// ErrNotFound aliases the shared repository sentinel
var ErrNotFound = interfaces.ErrNotFound

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	task     *taskRepository
	blocker  *blockerRepository
	activity *activityRepository
	setting  *settingRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		task:     newTaskRepository(),
		blocker:  newBlockerRepository(),
		activity: newActivityRepository(),
		setting:  newSettingRepository(),
	}
}

func (m *Memory) Task() interfaces.TaskRepository {
	return m.task
}

func (m *Memory) Blocker() interfaces.BlockerRepository {
	return m.blocker
}

func (m *Memory) Activity() interfaces.ActivityRepository {
	return m.activity
}

func (m *Memory) Setting() interfaces.SettingRepository {
	return m.setting
}

func (m *Memory) Close() error {
	return nil
}
