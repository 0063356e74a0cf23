// Package advisor implements the study-advisor suggestion engine: a
// deterministic lookup over an ordered list of keyword rules. The first
// rule whose keywords match wins; there is no scoring and no model.
//
// Two tiers:
//
//  1. A selected student: the suggestion is personalised from the
//     student's course (and first name).
//  2. Free text only: the same style of matching over what the user
//     typed.
package advisor

import (
	"fmt"
	"strings"

	"github.com/dhananjay-m/student-management-api/internal/types"
)

// rule pairs substring keywords with a suggestion. For courseRules the
// suggestion is a format string taking the student's first name and
// course; for messageRules it is returned verbatim.
type rule struct {
	keywords   []string
	suggestion string
}

// courseRules map a selected student's course to a personalised
// suggestion. Order matters: "Computer Science and Mathematics" hits
// the computer branch, never the math branch.
var courseRules = []rule{
	{[]string{"computer", "cs", "software"},
		"Since %s is studying %s, I recommend Data Structures & Algorithms next, then Full Stack Development."},
	{[]string{"math"},
		"For %s, next step: Applied Statistics & Machine Learning with Python."},
	{[]string{"physics"},
		"%s might enjoy Computational Physics or Quantum Computing fundamentals."},
	{[]string{"web", "mern", "react"},
		"%s is already on the right track! Next: Advanced MERN - Authentication, WebSockets & Deployment."},
	{[]string{"data", "science"},
		"Great foundation! Next for %s: Machine Learning Specialization or Big Data Analytics."},
	{[]string{"business", "management"},
		"Suggest IT Project Management or Business Analytics for %s."},
}

// courseDefault is the personalised fallback when no course rule matches.
const courseDefault = "For %s, I recommend exploring Cloud Computing (AWS/Azure) - it complements any domain."

// messageRules map free-text interests to suggestions.
var messageRules = []rule{
	{[]string{"mern", "stack", "react", "node", "express", "mongodb", "frontend", "backend"},
		"Since you like MERN, try Advanced MERN: Authentication, WebSockets & Deployment!"},
	{[]string{"web", "html", "css"},
		"Level up with Responsive Design & CSS Frameworks!"},
	{[]string{"python", "data", "pandas", "numpy"},
		"You might love Data Science with Python & Machine Learning!"},
	{[]string{"java", "spring"},
		"Check out Spring Boot Microservices & Cloud!"},
	{[]string{"database", "sql", "mysql", "postgres"},
		"Master Advanced SQL & Database Design!"},
	{[]string{"mongo", "nosql"},
		"Go deeper with MongoDB Aggregation & Atlas!"},
}

// messageDefault is returned when nothing matches the free text.
const messageDefault = "We have a great Cloud Computing fundamentals course!"

// Suggest returns the advisor's suggestion for the given input.
// A non-nil student takes precedence over the message.
func Suggest(student *types.Student, message string) string {
	if student != nil {
		return suggestForStudent(*student)
	}
	return suggestForMessage(message)
}

func suggestForStudent(student types.Student) string {
	course := strings.ToLower(student.Course)
	name := firstName(student.Name)

	for _, r := range courseRules {
		if matches(course, r.keywords) {
			// Some suggestions name both the student and the course,
			// others only the student.
			if strings.Count(r.suggestion, "%s") == 2 {
				return fmt.Sprintf(r.suggestion, name, student.Course)
			}
			return fmt.Sprintf(r.suggestion, name)
		}
	}
	return fmt.Sprintf(courseDefault, name)
}

func suggestForMessage(message string) string {
	interest := strings.ToLower(message)

	for _, r := range messageRules {
		if matches(interest, r.keywords) {
			return r.suggestion
		}
	}
	return messageDefault
}

// matches reports whether any keyword occurs in s. Keywords of one or
// two letters ("cs") must appear as a whole word — plain substring
// matching would send "Physics" down the computer-science branch.
func matches(s string, keywords []string) bool {
	for _, k := range keywords {
		if len(k) <= 2 {
			if containsWord(s, k) {
				return true
			}
			continue
		}
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// containsWord reports whether word appears in s delimited by
// non-letter characters (or the string boundaries).
func containsWord(s, word string) bool {
	for _, field := range strings.FieldsFunc(s, func(r rune) bool {
		return !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9')
	}) {
		if field == word {
			return true
		}
	}
	return false
}

// firstName takes the part of a full name before the first space.
func firstName(full string) string {
	name, _, _ := strings.Cut(strings.TrimSpace(full), " ")
	return name
}
