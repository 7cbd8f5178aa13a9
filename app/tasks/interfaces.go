package tasks

// TaskSchedulerInterface defines the operations the application and
// the HTTP layer use to drive background processing.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	EnqueueIngest(sourceName string) error
	GetTotals() Totals
}
