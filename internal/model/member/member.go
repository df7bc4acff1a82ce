// Package member defines the Member entity and its request payloads.
package member

// Member is a gym customer record.
type Member struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Age  int    `json:"age" db:"age"`
}

// Age is a pointer in the write payloads so that a missing "age" fails
// "required" while an explicit 0 is accepted.

type CreateMemberPayload struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
	Age  *int   `json:"age" validate:"required,min=0,max=150"`
}

type UpdateMemberPayload struct {
	ID   int64  `param:"id" json:"-" validate:"required,min=1"`
	Name string `json:"name" validate:"required,min=1,max=255"`
	Age  *int   `json:"age" validate:"required,min=0,max=150"`
}

type GetMemberPayload struct {
	ID int64 `param:"id" json:"-" validate:"required,min=1"`
}

type DeleteMemberPayload struct {
	ID int64 `param:"id" json:"-" validate:"required,min=1"`
}

type ListMembersPayload struct{}
