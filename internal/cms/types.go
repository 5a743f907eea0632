package cms

import "time"

// Status is the lifecycle state of a content record.
type Status string

// Content statuses. These mirror the states the host vocabulary uses for
// posts; Inherit is reserved for revision records.
const (
	StatusDraft   Status = "draft"
	StatusPending Status = "pending"
	StatusFuture  Status = "future"
	StatusPublish Status = "publish"
	StatusInherit Status = "inherit"
	StatusTrash   Status = "trash"
)

// Content is a content record (post, page or revision).
type Content struct {
	ID       int64
	Title    string
	Body     string
	AuthorID int64
	Status   Status
	Type     string
	Slug     string
	Date     time.Time // publish or scheduled date, UTC
	EditDate bool      // set when the date was assigned explicitly (scheduled records)
	ParentID int64     // parent record for revisions, 0 otherwise
	// ExternalID links this record to the corresponding record on the
	// external platform. Once set at creation time it is never overwritten.
	ExternalID int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// User is a CMS author account.
type User struct {
	ID          int64
	Login       string
	DisplayName string
	Email       string
	CreatedAt   time.Time
}

// Category is a taxonomy term content records can be attached to.
type Category struct {
	ID        int64
	Name      string
	Slug      string
	CreatedAt time.Time
}

// ContentType describes a registered content type.
type ContentType struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Public bool   `json:"public"`
}

// TypeRevision is the content type used for revision side records.
const TypeRevision = "revision"

// contentTypes is the fixed type registry. The host platform registers
// these dynamically; the bridge only needs the built-in set.
var contentTypes = []ContentType{
	{Name: "post", Label: "Posts", Public: true},
	{Name: "page", Label: "Pages", Public: true},
	{Name: TypeRevision, Label: "Revisions", Public: false},
}

// ContentTypes returns all registered content types. If publicOnly is set,
// internal types (revisions) are excluded.
func ContentTypes(publicOnly bool) []ContentType {
	if !publicOnly {
		return contentTypes
	}
	public := make([]ContentType, 0, len(contentTypes))
	for _, ct := range contentTypes {
		if ct.Public {
			public = append(public, ct)
		}
	}
	return public
}

// TypeExists reports whether a content type is registered.
func TypeExists(name string) bool {
	for _, ct := range contentTypes {
		if ct.Name == name {
			return true
		}
	}
	return false
}
