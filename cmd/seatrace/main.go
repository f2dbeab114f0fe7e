package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/lithammer/shortuuid/v3"
	"golang.org/x/sync/errgroup"
)

// seatrace points many users at the same seat of one schedule on a running
// server and checks that at most one of them gets it.

type options struct {
	BaseURL    string `long:"base-url" default:"http://localhost:8080/api/v1" description:"API base URL"`
	ScheduleID string `long:"schedule" required:"true" description:"Schedule to book on"`
	Seat       string `long:"seat" default:"A1" description:"Seat number every user asks for"`
	Users      int    `long:"users" default:"10" description:"Number of concurrent users"`
	Password   string `long:"password" default:"qwerty" description:"Password for the generated users"`
	Cancel     bool   `long:"cancel" description:"Cancel the winning booking afterwards"`
}

type envelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"status_code"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

type attemptResult struct {
	User         int           `json:"user"`
	StatusCode   int           `json:"status_code"`
	Message      string        `json:"message"`
	BookingID    string        `json:"booking_id,omitempty"`
	ResponseTime time.Duration `json:"response_time"`
	Error        string        `json:"error,omitempty"`
}

type summary struct {
	Total       int           `json:"total"`
	Created     int           `json:"created"`
	Rejected    int           `json:"rejected"`
	Failed      int           `json:"failed"`
	AvgResponse time.Duration `json:"avg_response"`
}

type client struct {
	baseURL string
	http    *http.Client
}

type session struct {
	token  string
	userID string
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	fmt.Println("🧪 Starting seat race...")
	fmt.Println("========================")

	c := &client{baseURL: opts.BaseURL, http: &http.Client{Timeout: 30 * time.Second}}
	ctx := context.Background()

	price, err := c.schedulePrice(ctx, opts.ScheduleID)
	if err != nil {
		fmt.Printf("❌ Schedule lookup failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Schedule %s, seat price %.2f\n", opts.ScheduleID, price)

	sessions, err := c.registerUsers(ctx, opts.Users, opts.Password)
	if err != nil {
		fmt.Printf("❌ User setup failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ %d users ready\n", len(sessions))

	results := c.race(ctx, sessions, opts.ScheduleID, opts.Seat, price)
	s := summarize(results)
	printReport(results, s)

	if opts.Cancel {
		for _, r := range results {
			if r.BookingID == "" {
				continue
			}
			if err := c.cancel(ctx, sessions[r.User], r.BookingID); err != nil {
				fmt.Printf("❌ Cancel of %s failed: %v\n", r.BookingID, err)
			} else {
				fmt.Printf("🧹 Cancelled %s\n", r.BookingID)
			}
		}
	}

	if s.Created > 1 {
		fmt.Printf("\n❌ Seat %s was sold %d times\n", opts.Seat, s.Created)
		os.Exit(1)
	}
	fmt.Println("\n🎉 Seat race complete: no double booking")
}

// race releases every booking request at once
func (c *client) race(ctx context.Context, sessions []session, scheduleID, seat string, price float64) []attemptResult {
	results := make([]attemptResult, len(sessions))
	start := make(chan struct{})

	var ready sync.WaitGroup
	ready.Add(len(sessions))

	var g errgroup.Group
	for i, sess := range sessions {
		i, sess := i, sess
		g.Go(func() error {
			body := bookingBody(scheduleID, seat, price, i)
			ready.Done()
			<-start

			began := time.Now()
			env, code, err := c.do(ctx, http.MethodPost, "/bookings", sess.token, body)
			results[i] = attemptResult{User: i, StatusCode: code, ResponseTime: time.Since(began)}
			if err != nil {
				results[i].Error = err.Error()
				return nil
			}
			results[i].Message = env.Message
			if code == http.StatusCreated {
				var created struct {
					ID string `json:"id"`
				}
				if err := json.Unmarshal(env.Data, &created); err == nil {
					results[i].BookingID = created.ID
				}
			}
			return nil
		})
	}

	ready.Wait()
	close(start)
	_ = g.Wait()
	return results
}

func bookingBody(scheduleID, seat string, price float64, user int) map[string]interface{} {
	return map[string]interface{}{
		"scheduleId": scheduleID,
		"seats":      []map[string]interface{}{{"seatNumber": seat, "price": price}},
		"passengers": []map[string]interface{}{{"name": fmt.Sprintf("Racer %d", user), "age": 30, "seatNumber": seat}},
		"contactDetails": map[string]string{
			"email": fmt.Sprintf("racer%d@busly.test", user),
			"phone": "+910000000000",
		},
	}
}

func summarize(results []attemptResult) summary {
	s := summary{Total: len(results)}
	var total time.Duration
	for _, r := range results {
		total += r.ResponseTime
		switch {
		case r.Error != "" || r.StatusCode >= http.StatusInternalServerError:
			s.Failed++
		case r.StatusCode == http.StatusCreated:
			s.Created++
		default:
			s.Rejected++
		}
	}
	if s.Total > 0 {
		s.AvgResponse = total / time.Duration(s.Total)
	}
	return s
}

func printReport(results []attemptResult, s summary) {
	fmt.Println("\n📊 SEAT RACE REPORT")
	fmt.Println("===================")
	for _, r := range results {
		icon := "🚫"
		switch {
		case r.BookingID != "":
			icon = "🎟️"
		case r.Error != "" || r.StatusCode >= http.StatusInternalServerError:
			icon = "❌"
		}
		fmt.Printf("   %s user %d: HTTP %d %s (%v)\n", icon, r.User, r.StatusCode, r.Message, r.ResponseTime)
	}
	fmt.Printf("Total: %d, Created: %d, Rejected: %d, Failed: %d, Avg: %v\n",
		s.Total, s.Created, s.Rejected, s.Failed, s.AvgResponse)
}

func (c *client) schedulePrice(ctx context.Context, scheduleID string) (float64, error) {
	env, code, err := c.do(ctx, http.MethodGet, "/schedules/"+scheduleID, "", nil)
	if err != nil {
		return 0, err
	}
	if code != http.StatusOK {
		return 0, fmt.Errorf("HTTP %d: %s", code, env.Message)
	}
	var schedule struct {
		Price float64 `json:"price"`
	}
	if err := json.Unmarshal(env.Data, &schedule); err != nil {
		return 0, fmt.Errorf("decode schedule: %w", err)
	}
	return schedule.Price, nil
}

func (c *client) registerUsers(ctx context.Context, n int, password string) ([]session, error) {
	run := shortuuid.New()[:8]
	out := make([]session, n)
	for i := range out {
		env, code, err := c.do(ctx, http.MethodPost, "/auth/register", "", map[string]string{
			"name":     fmt.Sprintf("Racer %d", i),
			"email":    fmt.Sprintf("seatrace-%s-%d@busly.test", run, i),
			"password": password,
		})
		if err != nil {
			return nil, err
		}
		if code != http.StatusCreated {
			return nil, fmt.Errorf("register user %d: HTTP %d: %s", i, code, env.Message)
		}

		var auth struct {
			User struct {
				ID string `json:"id"`
			} `json:"user"`
			AccessToken string `json:"access_token"`
		}
		if err := json.Unmarshal(env.Data, &auth); err != nil {
			return nil, fmt.Errorf("decode auth response: %w", err)
		}
		out[i] = session{token: auth.AccessToken, userID: auth.User.ID}
	}
	return out, nil
}

func (c *client) cancel(ctx context.Context, sess session, bookingID string) error {
	env, code, err := c.do(ctx, http.MethodPost, "/bookings/"+bookingID+"/cancel", sess.token,
		map[string]string{"reason": "seatrace cleanup"})
	if err != nil {
		return err
	}
	if code != http.StatusOK {
		return fmt.Errorf("HTTP %d: %s", code, env.Message)
	}
	return nil
}

func (c *client) do(ctx context.Context, method, path, token string, body interface{}) (*envelope, int, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return &env, resp.StatusCode, nil
}
