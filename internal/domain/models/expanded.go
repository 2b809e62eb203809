// internal/domain/models/expanded.go
package models

// The types below are read models. They are assembled from several
// collections and are never written back.

// UserDetail is a user with its communities expanded in stored order.
type UserDetail struct {
	User        User        `json:"user"`
	Communities []Community `json:"communities"`
}

// Reply is a thread with its author expanded.
type Reply struct {
	Thread Thread         `json:"thread"`
	Author *AuthorSummary `json:"author,omitempty"`
}

// ThreadDetail is one of a user's threads with its community and replies
// expanded. Community is nil when the thread was not posted to one.
type ThreadDetail struct {
	Thread    Thread            `json:"thread"`
	Community *CommunitySummary `json:"community,omitempty"`
	Children  []Reply           `json:"children"`
}

// UserThreads is a user with the threads they authored.
type UserThreads struct {
	User    User           `json:"user"`
	Threads []ThreadDetail `json:"threads"`
}
