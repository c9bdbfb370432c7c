package core

// Notifier is any service that can surface transient, non-blocking
// notifications to the user; the terminal analog of a dashboard toast.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}
