// Package marktime turns timestamped log events into a timeline of elapsed
// milliseconds.
//
// Quick start:
//
//	rows, err := marktime.Timeline([]marktime.Event{
//	    {Timestamp: "2025-05-08 04:11:31.234", Message: "job start"},
//	    {Timestamp: "2025-05-08 04:11:31.734", Message: "job done"},
//	}, marktime.WithPatterns("start", "done"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, r := range rows {
//	    fmt.Println(r.Pattern, r.AccumMS) // start 0, done 500
//	}
//
// Timestamps may be numeric UTC ("2025-05-08 04:11:31.234") or ISO-8601 with
// an offset ("2025-05-08T07:14:42.271-05:00"). Timeline is a pure function and
// safe for concurrent use.
package marktime
