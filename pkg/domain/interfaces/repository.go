package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Task() TaskRepository
	Blocker() BlockerRepository
	Activity() ActivityRepository
	Setting() SettingRepository

	Close() error
}
