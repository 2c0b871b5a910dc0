package spec

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/confgen-ops/confgen/pkg/model"
	"github.com/confgen-ops/confgen/pkg/util"
)

// FleetSite is one row of the fleet inventory expanded into a named
// site definition.
type FleetSite struct {
	Name       string
	Definition *SiteDefinition
}

// LoadFleet reads fleet.csv from the definitions directory. Returns nil
// if no inventory file exists.
func (l *Loader) LoadFleet() ([]*FleetSite, error) {
	path := filepath.Join(l.dir, "fleet.csv")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening fleet inventory: %w", err)
	}
	defer f.Close()

	sites, err := ParseFleet(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return sites, nil
}

// Fleet CSV columns. The header row is required and column order is free.
var fleetColumns = []string{
	"site", "customer", "region", "vendor", "model",
	"wan_mode", "wan_address", "wan_gateway",
	"lan_subnet", "vlans",
	"wireless_ssid", "wireless_passphrase",
	"admin_password",
}

// ParseFleet parses a fleet inventory CSV into site definitions.
// Required columns: site, region, vendor. A row expands into a single-LAN
// site; the vlans column takes range notation ("20,30-32") and produces
// L2-only VLANs named vlan<ID>.
func ParseFleet(r io.Reader) ([]*FleetSite, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	known := make(map[string]bool, len(fleetColumns))
	for _, name := range fleetColumns {
		known[name] = true
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if !known[name] {
			return nil, fmt.Errorf("unknown column '%s'", name)
		}
		col[name] = i
	}
	for _, required := range []string{"site", "region", "vendor"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing required column '%s'", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var sites []*FleetSite
	seen := make(map[string]bool)
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		name := field(record, "site")
		if name == "" {
			return nil, fmt.Errorf("line %d: empty site name", line)
		}
		if seen[name] {
			return nil, fmt.Errorf("line %d: duplicate site '%s'", line, name)
		}
		seen[name] = true

		def, err := fleetRowToDefinition(record, field)
		if err != nil {
			return nil, fmt.Errorf("line %d (site %s): %w", line, name, err)
		}
		sites = append(sites, &FleetSite{Name: name, Definition: def})
	}

	return sites, nil
}

func fleetRowToDefinition(record []string, field func([]string, string) string) (*SiteDefinition, error) {
	def := &SiteDefinition{
		Customer: field(record, "customer"),
		Region:   field(record, "region"),
		Vendor:   field(record, "vendor"),
		Model:    field(record, "model"),
	}

	if mode := field(record, "wan_mode"); mode != "" {
		def.WAN = &model.WAN{
			Mode:    mode,
			Address: field(record, "wan_address"),
			Gateway: field(record, "wan_gateway"),
		}
	}

	if subnet := field(record, "lan_subnet"); subnet != "" {
		def.LANs = []*model.LANNetwork{{
			Name:   "lan",
			Subnet: subnet,
			DHCP:   &model.DHCPServer{Enabled: true},
		}}
	}

	if vlanSpec := field(record, "vlans"); vlanSpec != "" {
		ids, err := util.ExpandVLANRange(vlanSpec)
		if err != nil {
			return nil, fmt.Errorf("vlans column: %w", err)
		}
		for _, id := range ids {
			def.VLANs = append(def.VLANs, &model.VLAN{
				ID:   id,
				Name: fmt.Sprintf("vlan%d", id),
			})
		}
	}

	if ssid := field(record, "wireless_ssid"); ssid != "" {
		def.Wireless = []*model.WirelessNetwork{{
			SSID:       ssid,
			Security:   model.WirelessWPA2PSK,
			Passphrase: field(record, "wireless_passphrase"),
		}}
	}

	if pw := field(record, "admin_password"); pw != "" {
		def.Admin = &model.AdminAccess{Password: pw}
	}

	return def, nil
}
