package request

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/mcoot/hoyorecord/internal/services/record"
)

// Options reads ?schedule= and ?need_all= into record options. Missing
// values keep record.DefaultOptions.
func Options(r *http.Request) (record.Options, error) {
	opts := record.DefaultOptions()
	q := r.URL.Query()

	schedule, err := record.ParseSchedule(q.Get("schedule"))
	if err != nil {
		return opts, err
	}
	opts.Schedule = schedule

	if v := q.Get("need_all"); v != "" {
		all, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("invalid need_all %q", v)
		}
		opts.NeedAll = all
	}
	return opts, nil
}

// Refresh reads ?refresh=, defaulting to false
func Refresh(r *http.Request) (bool, error) {
	v := r.URL.Query().Get("refresh")
	if v == "" {
		return false, nil
	}
	refresh, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid refresh %q", v)
	}
	return refresh, nil
}
