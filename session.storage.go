package main

// SessionRecord is the only durable client-side state. It is written as a
// whole on login and deleted as a whole on logout.
type SessionRecord struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// SessionStorage defines possible operations on the durable session record.
type SessionStorage interface {
	Save(record SessionRecord) error
	Load() (SessionRecord, error)
	Clear() error
}
