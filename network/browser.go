package network

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/automoto/friendlyjam/master"
)

// FetchServers queries the master server list.
func FetchServers(ctx context.Context, client *http.Client, masterURL string) ([]master.ServerInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSuffix(masterURL, "/")+"/servers", nil)
	if err != nil {
		return nil, fmt.Errorf("master server query: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("master server query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("master server returned status %d", resp.StatusCode)
	}

	var servers []master.ServerInfo
	if err := json.NewDecoder(resp.Body).Decode(&servers); err != nil {
		return nil, fmt.Errorf("failed to decode server list: %w", err)
	}
	return servers, nil
}

// PickServer returns the server with the fewest open rooms, ties broken by
// player count.
func PickServer(servers []master.ServerInfo) (master.ServerInfo, bool) {
	if len(servers) == 0 {
		return master.ServerInfo{}, false
	}
	sorted := append([]master.ServerInfo(nil), servers...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Rooms != sorted[j].Rooms {
			return sorted[i].Rooms < sorted[j].Rooms
		}
		return sorted[i].Players < sorted[j].Players
	})
	return sorted[0], true
}

// ServerURL turns a listed address into a websocket URL.
func ServerURL(info master.ServerInfo) string {
	if strings.Contains(info.Address, "://") {
		return info.Address
	}
	return "ws://" + info.Address
}
