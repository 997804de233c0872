package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/ettle/strcase"
	"gopkg.in/yaml.v3"

	console "github.com/velocitysales/admin-console/components/console"
	"github.com/velocitysales/admin-console/pkg/salesapi"
)

type cli struct {
	Tenants       tenantsCmd       `cmd:"" help:"Manage the tenant manifest."`
	Orders        ordersCmd        `cmd:"" help:"Fetch and filter a tenant's orders."`
	Conversations conversationsCmd `cmd:"" help:"Fetch a tenant's conversations."`
	Analytics     analyticsCmd     `cmd:"" help:"Fetch a tenant's analytics summary."`
}

type apiFlags struct {
	BaseURL string `required:"" env:"SALES_API_URL" help:"Base URL of the sales backend API."`
	APIKey  string `env:"SALES_API_KEY" help:"API key sent as a bearer token."`
	Tenant  string `required:"" help:"Tenant slug."`
	Output  string `default:"json" enum:"json,yaml" help:"Output format."`
}

func main() {
	ctx := kong.Parse(&cli{},
		kong.Description("Operations utility for the sales admin console."),
		kong.UsageOnError(),
	)
	err := ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}

func (f apiFlags) client() (*salesapi.HTTPClient, error) {
	return salesapi.NewHTTPClient(salesapi.Config{
		BaseURL: f.BaseURL,
		APIKey:  f.APIKey,
	})
}

func (f apiFlags) write(payload any) error {
	switch f.Output {
	case "yaml":
		encoder := yaml.NewEncoder(os.Stdout)
		encoder.SetIndent(2)
		defer encoder.Close()
		return encoder.Encode(payload)
	default:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	}
}

type tenantsCmd struct {
	Add  tenantAddCmd  `cmd:"" help:"Add a tenant entry to the manifest."`
	List tenantListCmd `cmd:"" help:"List manifest tenants."`
}

type tenantAddCmd struct {
	ID            string `required:"" help:"Tenant slug used in URLs (e.g. greens-tlv)."`
	Name          string `help:"Display name (defaults to a title-cased slug)."`
	DefaultLocale string `default:"en" help:"Default UI locale (en or he)."`
	Theme         string `default:"light" help:"UI theme (light or dark)."`
	Channel       []string `help:"Messaging channels the tenant sells on (use multiple --channel flags)."`
	ManifestPath  string `required:"" type:"path" help:"Path to the tenant manifest YAML file to update."`
	Overwrite     bool   `help:"Overwrite an existing entry with the same id."`
}

func (cmd *tenantAddCmd) Run(_ context.Context) error {
	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("consolectl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}
	if !cmd.Overwrite {
		for _, entry := range doc.Tenants {
			if entry.ID == cmd.ID {
				return fmt.Errorf("consolectl: manifest already defines tenant %s (use --overwrite to replace)", cmd.ID)
			}
		}
	}
	name := cmd.Name
	if name == "" {
		name = strcase.ToCase(strings.ReplaceAll(cmd.ID, "-", " "), strcase.TitleCase, ' ')
	}
	entry := console.TenantEntry{
		ID:            cmd.ID,
		Name:          name,
		DefaultLocale: cmd.DefaultLocale,
		Theme:         cmd.Theme,
		Channels:      cmd.Channel,
	}

	replaced := false
	for idx := range doc.Tenants {
		if doc.Tenants[idx].ID == cmd.ID {
			doc.Tenants[idx] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Tenants = append(doc.Tenants, entry)
	}
	sort.Slice(doc.Tenants, func(i, j int) bool {
		return doc.Tenants[i].ID < doc.Tenants[j].ID
	})
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := writeManifest(manifestPath, doc); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Added %s to %s\n", cmd.ID, manifestPath)
	return nil
}

type tenantListCmd struct {
	ManifestPath string `required:"" type:"path" help:"Path to the tenant manifest YAML file."`
}

func (cmd *tenantListCmd) Run(_ context.Context) error {
	doc, err := console.ReadManifest(cmd.ManifestPath)
	if err != nil {
		return err
	}
	for _, entry := range doc.Tenants {
		fmt.Fprintf(os.Stdout, "%s\t%s\t%s/%s\n", entry.ID, entry.Name, entry.DefaultLocale, entry.Theme)
	}
	return nil
}

type ordersCmd struct {
	apiFlags
	Status    string  `help:"Filter by order status."`
	DateRange string  `help:"Date range preset (today, last7Days, last30Days, thisMonth)."`
	PriceMin  float64 `help:"Minimum total (inclusive)."`
	PriceMax  float64 `help:"Maximum total (inclusive)."`
	Customer  string  `help:"Customer name substring (case-insensitive)."`
	Sort      string  `default:"created" help:"Sort field (id, customer, status, total, created)."`
	Desc      bool    `default:"true" help:"Sort descending."`
}

func (cmd *ordersCmd) Run(ctx context.Context) error {
	client, err := cmd.client()
	if err != nil {
		return err
	}
	orders, err := client.Orders(ctx, cmd.Tenant, console.OrderQuery{})
	if err != nil {
		return err
	}
	values := url.Values{}
	values.Set("status", cmd.Status)
	values.Set("dateRange", cmd.DateRange)
	if cmd.PriceMin > 0 {
		values.Set("priceMin", fmt.Sprintf("%g", cmd.PriceMin))
	}
	if cmd.PriceMax > 0 {
		values.Set("priceMax", fmt.Sprintf("%g", cmd.PriceMax))
	}
	values.Set("customer", cmd.Customer)
	filter := console.ParseOrderFilter(values)

	field, ok := console.ParseSortField(cmd.Sort)
	if !ok {
		return fmt.Errorf("consolectl: unknown sort field %q", cmd.Sort)
	}
	sortBy := console.OrderSort{Field: field, Descending: cmd.Desc}
	return cmd.write(sortBy.Apply(filter.Apply(orders, time.Now())))
}

type conversationsCmd struct {
	apiFlags
	Channel string `help:"Filter by messaging channel (telegram, whatsapp)."`
}

func (cmd *conversationsCmd) Run(ctx context.Context) error {
	client, err := cmd.client()
	if err != nil {
		return err
	}
	items, err := client.Conversations(ctx, cmd.Tenant)
	if err != nil {
		return err
	}
	return cmd.write(console.FilterConversationsByChannel(items, cmd.Channel))
}

type analyticsCmd struct {
	apiFlags
}

func (cmd *analyticsCmd) Run(ctx context.Context) error {
	client, err := cmd.client()
	if err != nil {
		return err
	}
	data, err := client.Analytics(ctx, cmd.Tenant)
	if err != nil {
		return err
	}
	return cmd.write(data)
}

func loadOrInitManifest(path string) (*console.TenantManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &console.TenantManifestDocument{
				Version: console.ManifestVersion,
				Tenants: []console.TenantEntry{},
				Source:  path,
			}, nil
		}
		return nil, fmt.Errorf("consolectl: stat manifest: %w", err)
	}
	return console.ReadManifest(path)
}

func writeManifest(path string, doc *console.TenantManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("consolectl: mkdir %s: %w", filepath.Dir(path), err)
	}
	tmpDoc := *doc
	tmpDoc.Source = ""

	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("consolectl: create manifest %s: %w", path, err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(tmpDoc); err != nil {
		return fmt.Errorf("consolectl: write manifest: %w", err)
	}
	return nil
}
