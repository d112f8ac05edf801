// Package studyplan is a Go client for the studyplan HTTP API.
//
//	client, _ := studyplan.New("http://localhost:8080", studyplan.WithAPIKey(key))
//	plan, _ := client.Plan(ctx, studyplan.PlanRequest{
//	    Feedback: "I keep mixing up left and inner joins",
//	})
//	fmt.Println(plan.Text)
//
//	hits, _ := client.Search(ctx, studyplan.SourceSlide, "confusion matrix", 3)
//
// Errors returned by the server unwrap to the sentinel errors in this
// package, so callers can use errors.Is.
package studyplan
