// Package repository holds the SQL for every entity.
//
// Repositories are stateless: each method receives the request's
// connection as a database.Querier and runs exactly one parameterized
// statement on it. Opening and closing that connection is the caller's
// job (see database.Provider).
package repository

// Repositories is a container for all repository instances.
type Repositories struct {
	Member  *MemberRepository
	Workout *WorkoutRepository
}

func NewRepositories() *Repositories {
	return &Repositories{
		Member:  NewMemberRepository(),
		Workout: NewWorkoutRepository(),
	}
}
