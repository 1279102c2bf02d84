// Demo program that fills an in-memory switch with a busy call center and
// opens the channel browser on it.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"findchannel/src/command"
	"findchannel/src/contracts"
	"findchannel/src/logger"
	"findchannel/src/store"
	"findchannel/src/tui"
)

const hostname = "demo-switch"

func main() {
	ctx := context.Background()
	ms := store.NewMemoryStore()

	fmt.Println("Generating sample channels...")
	for _, rec := range generateSampleChannels(time.Now()) {
		if err := ms.SaveChannel(ctx, rec); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading channel: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("Loaded %d channels on %s.\n", ms.Len(), hostname)

	h := command.NewHandler(ms, ms, command.Settings{Hostname: hostname, QueryTimeout: 5 * time.Second}, logger.NewSilentLogger())

	query := "call_center_queue sales"
	if len(os.Args) > 2 {
		query = os.Args[1] + " " + os.Args[2]
	}

	if err := tui.Start(tui.Options{
		Hostname:  hostname,
		Query:     query,
		Search:    tui.HandlerSearcher(h),
		Variables: tui.RegistryVariables(ms),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func generateSampleChannels(now time.Time) []contracts.ChannelRecord {
	queues := []string{"sales", "Sales", "support", "billing"}
	states := []string{"ACTIVE", "RINGING", "HELD", "EARLY"}
	agents := []string{"1000", "1001", "1002", "1003", "1004"}

	var out []contracts.ChannelRecord
	for i := 0; i < 40; i++ {
		created := now.Add(-time.Duration(40-i) * 37 * time.Second)
		ext := agents[i%len(agents)]
		caller := fmt.Sprintf("+1415555%04d", 1200+i*7)

		rec := contracts.ChannelRecord{
			ID:           uuid.NewString(),
			Hostname:     hostname,
			CreatedEpoch: created.Unix(),
			Fields: map[string]string{
				"direction":        "inbound",
				"created":          created.Format("2006-01-02 15:04:05"),
				"name":             "sofia/external/" + caller + "@carrier.example.net",
				"state":            "CS_EXECUTE",
				"cid_name":         fmt.Sprintf("Caller %02d", i),
				"cid_num":          caller,
				"dest":             "8005551000",
				"application":      "bridge",
				"application_data": "user/" + ext,
				"read_codec":       "PCMU",
				"write_codec":      "PCMU",
				"callstate":        states[i%len(states)],
			},
			Variables: map[string]string{
				"call_center_queue": queues[i%len(queues)],
				"sip_from_user":     caller,
				"agent_id":          ext,
				"direction":         "inbound",
			},
		}
		// Some channels never reached a queue
		if i%9 == 0 {
			delete(rec.Variables, "call_center_queue")
		}
		out = append(out, rec)
	}
	return out
}
