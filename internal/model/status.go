package model

// TaskStatus represents the state of a single tracked item within a batch
type TaskStatus string

const (
	// TaskStatusPending means the item is queued but not yet checked
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusResolving means the remote version is being requested
	TaskStatusResolving TaskStatus = "Resolving"

	// TaskStatusDownloading means the transfer is in progress
	TaskStatusDownloading TaskStatus = "Downloading"

	// TaskStatusUpToDate means the local copy matches the remote version
	TaskStatusUpToDate TaskStatus = "UpToDate"

	// TaskStatusInstalled means a new version was downloaded and recorded
	TaskStatusInstalled TaskStatus = "Installed"

	// TaskStatusFailed means resolving or downloading failed
	TaskStatusFailed TaskStatus = "Failed"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if the item is being worked on
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusResolving || ts == TaskStatusDownloading
}

// IsFinished returns true if the item reached a terminal state
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusUpToDate || ts == TaskStatusInstalled || ts == TaskStatusFailed
}

// BatchState is the coarse state of the update orchestrator
type BatchState string

const (
	// BatchIdle means no batch is running
	BatchIdle BatchState = "Idle"

	// BatchChecking means items are being resolved and downloaded
	BatchChecking BatchState = "Checking"

	// BatchDone means every item reached a terminal state
	BatchDone BatchState = "Done"
)
