// Package fixtures holds recorded upstream payloads shared by tests.
package fixtures

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed testdata/*.json
var files embed.FS

func load(name string) string {
	data, err := files.ReadFile("testdata/" + name)
	if err != nil {
		panic(fmt.Sprintf("fixtures: %v", err))
	}
	return string(data)
}

// MemberAbbott is a members-api search item for Diane Abbott (172), party 8.
func MemberAbbott() string { return load("member_172.json") }

// MemberBadenoch is a members-api search item for Kemi Badenoch (4597), party 4.
func MemberBadenoch() string { return load("member_4597.json") }

// InterestWimbledon is interest 12880 for member 172, worth 1396.00 GBP.
func InterestWimbledon() string { return load("interest_12880.json") }

// InterestColumnist is interest 12990 for member 4597, without a monetary value.
func InterestColumnist() string { return load("interest_12990_parent.json") }

// InterestArticle is interest 13001, a child of 12990 worth 250 GBP.
func InterestArticle() string { return load("interest_13001_child.json") }

// Page wraps items into an upstream page body.
func Page(items ...string) string {
	return `{"items":[` + strings.Join(items, ",") + `],"totalResults":` + fmt.Sprint(len(items)) + `}`
}
