package models

// Collection names double as file names and document keys.
const (
	CollectionUsers       = "users"
	CollectionCourses     = "courses"
	CollectionEnrollments = "enrollments"
	CollectionPayments    = "payments"
)

// Collections lists every collection in lock order.
var Collections = []string{
	CollectionUsers,
	CollectionCourses,
	CollectionEnrollments,
	CollectionPayments,
}
