package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/madhvi-n/postify/pkg/postify"
	"github.com/madhvi-n/postify/pkg/postify/admin"
)

// describe renders a command result for humans
func describe(result any) string {
	switch v := result.(type) {
	case *postify.User:
		return fmt.Sprintf("Created user %s (%s) with ID %s", v.Username, v.Email, v.ID)
	case *postify.Tag:
		return fmt.Sprintf("Created tag %q with ID %s", v.Name, v.ID)
	case *postify.Category:
		return fmt.Sprintf("Created category %q with ID %s", v.Name, v.ID)
	case *admin.StatisticsResponse:
		var b strings.Builder
		w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "ENTITY\tCOUNT\n")
		fmt.Fprintf(w, "users\t%d\n", v.Statistics.Users)
		fmt.Fprintf(w, "posts\t%d\n", v.Statistics.Posts)
		fmt.Fprintf(w, "comments\t%d\n", v.Statistics.Comments)
		fmt.Fprintf(w, "likes\t%d\n", v.Statistics.Likes)
		fmt.Fprintf(w, "follows\t%d\n", v.Statistics.Follows)
		fmt.Fprintf(w, "tag follows\t%d\n", v.Statistics.TagFollows)
		w.Flush()
		return strings.TrimRight(b.String(), "\n")
	case map[string]string:
		return "Deleted " + v["deleted"]
	}
	return fmt.Sprint(result)
}
