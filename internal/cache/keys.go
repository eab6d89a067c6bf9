package cache

import "fmt"

const (
	publicTestsPrefix = "quiz:tests:public"
)

// PublicTestsKey is the key of one page of the public test listing.
func PublicTestsKey(limit, offset int) string {
	return fmt.Sprintf("%s:%d:%d", publicTestsPrefix, limit, offset)
}

// PublicTestsPattern matches every cached page of the public listing.
func PublicTestsPattern() string {
	return publicTestsPrefix + ":*"
}
