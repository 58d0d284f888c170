//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// FeedbackCategory is the kind of message sent through the contact form
// ENUM(movie_request,problem_report,other)
type FeedbackCategory string
