package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/favianharya/SpendWise/internal/amqp"
	"github.com/favianharya/SpendWise/internal/assets"
	"github.com/favianharya/SpendWise/internal/budget"
	"github.com/favianharya/SpendWise/internal/cli"
	"github.com/favianharya/SpendWise/internal/config"
	"github.com/favianharya/SpendWise/internal/core"
	"github.com/favianharya/SpendWise/internal/exchange"
	"github.com/favianharya/SpendWise/internal/ledger"
	"github.com/favianharya/SpendWise/internal/log"
	"github.com/favianharya/SpendWise/internal/registry"
	"github.com/favianharya/SpendWise/internal/services"
	"github.com/favianharya/SpendWise/internal/state"
)

const usage = `Usage: spendwise <command> [flags]

Commands:
  add            add an expense
  remove         remove an expense by id
  remove-day     remove all expenses on a calendar day
  list           list a month's expenses
  budget-show    show a month's budget groups and spending
  budget-set     save a month's budget (groups from a JSON file)
  asset-add      track a new asset
  asset-list     list assets with current values
  asset-remove   remove an asset by id
  refresh-prices refresh the metal price cache
  export         export expenses to CSV
  export-assets  export assets to CSV
  import         import expenses from CSV (additive, no dedup)
  import-assets  import assets from CSV
  encode         encode local state as a compact sync payload
  merge          merge a sync payload into local state
`

type app struct {
	logger  *log.Logger
	cfg     *config.Config
	store   state.Store
	st      *state.AppState
	ledger  *ledger.Ledger
	reg     *registry.Registry
	budgets *budget.Store
	assets  *assets.Service
	sync    *services.SyncService
}

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := cli.LoadAndValidateConfig(logger)
	store, cleanup := cli.InitStore(logger, cfg)
	defer cleanup()

	ctx := context.Background()
	st := state.Load(ctx, store)

	a := &app{
		logger:  logger,
		cfg:     cfg,
		store:   store,
		st:      st,
		ledger:  ledger.New(st, store),
		reg:     registry.New(st, store),
		budgets: budget.New(st, store),
		assets:  assets.NewService(st, store),
	}
	a.sync = services.NewSyncService(st, store, a.reg)

	if err := a.reg.Load(ctx); err != nil {
		logger.Error("Failed to load category registry", log.FieldError, err)
		os.Exit(1)
	}

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "add":
		return a.cmdAdd(ctx, args)
	case "remove":
		return a.cmdRemove(ctx, args)
	case "remove-day":
		return a.cmdRemoveDay(ctx, args)
	case "list":
		return a.cmdList(args)
	case "budget-show":
		return a.cmdBudgetShow(args)
	case "budget-set":
		return a.cmdBudgetSet(ctx, args)
	case "asset-add":
		return a.cmdAssetAdd(ctx, args)
	case "asset-list":
		return a.cmdAssetList(args)
	case "asset-remove":
		return a.cmdAssetRemove(ctx, args)
	case "refresh-prices":
		return a.cmdRefreshPrices(ctx)
	case "export":
		return a.cmdExport(args, exchange.ExportExpensesCSV)
	case "export-assets":
		return a.cmdExport(args, exchange.ExportAssetsCSV)
	case "import":
		return a.cmdImport(ctx, args, a.sync.ImportExpenses)
	case "import-assets":
		return a.cmdImport(ctx, args, a.sync.ImportAssets)
	case "encode":
		return a.cmdEncode(args)
	case "merge":
		return a.cmdMerge(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) cmdAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	amount := fs.Float64("amount", 0, "expense amount (> 0)")
	category := fs.String("category", "", "category id")
	desc := fs.String("desc", "", "description (defaults to category name)")
	dateStr := fs.String("date", "", "calendar day YYYY-MM-DD (defaults to today)")
	fs.Parse(args)

	date := core.DateOf(time.Now())
	if *dateStr != "" {
		parsed, err := core.ParseDate(*dateStr)
		if err != nil {
			return err
		}
		date = parsed
	}
	description := *desc
	if description == "" {
		description = a.reg.DisplayName(*category)
	}

	svc := services.NewExpenseService(a.ledger, a.dialAMQP())
	defer svc.Close()

	added, err := svc.Create(ctx, core.Expense{
		Amount:      *amount,
		CategoryID:  *category,
		Description: description,
		Date:        date,
	})
	if err != nil {
		return err
	}
	fmt.Printf("added %s: %s %s on %s\n", added.ID, formatMoney(added.Amount), added.CategoryID, added.Date)
	return nil
}

// dialAMQP connects to the companion queue when one is configured. The add
// still succeeds without it; the sheet log is best-effort.
func (a *app) dialAMQP() *amqp.Client {
	if a.cfg.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(a.cfg.AMQPURL, a.cfg.AMQPExchange, a.cfg.AMQPQueue)
	if err != nil {
		a.logger.Debug("AMQP unavailable, sheet log skipped", log.FieldError, err)
		return nil
	}
	return client
}

func (a *app) cmdRemove(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("remove", flag.ExitOnError)
	id := fs.String("id", "", "expense id")
	fs.Parse(args)
	return a.ledger.Remove(ctx, *id)
}

func (a *app) cmdRemoveDay(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("remove-day", flag.ExitOnError)
	dateStr := fs.String("date", "", "calendar day YYYY-MM-DD")
	fs.Parse(args)

	date, err := core.ParseDate(*dateStr)
	if err != nil {
		return err
	}
	count, err := a.ledger.RemoveByDate(ctx, date)
	if err != nil {
		return err
	}
	fmt.Printf("removed %d expenses on %s\n", count, date)
	return nil
}

func (a *app) cmdList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	period := fs.String("period", core.CurrentPeriod(time.Now()).String(), "period YYYY-MM")
	fs.Parse(args)

	pk := core.PeriodKey(*period)
	if _, _, err := pk.Parse(); err != nil {
		return err
	}
	for _, e := range a.ledger.Query(ledger.InPeriod(pk)) {
		fmt.Printf("%s  %s  %-14s %-12s %s\n",
			e.ID, e.Date, formatMoney(e.Amount), e.CategoryID, e.Description)
	}
	fmt.Printf("total: %s\n", formatMoney(a.ledger.TotalInPeriod(pk)))
	return nil
}

func (a *app) cmdBudgetShow(args []string) error {
	fs := flag.NewFlagSet("budget-show", flag.ExitOnError)
	period := fs.String("period", core.CurrentPeriod(time.Now()).String(), "period YYYY-MM")
	fs.Parse(args)

	pk := core.PeriodKey(*period)
	if _, _, err := pk.Parse(); err != nil {
		return err
	}
	ms := a.budgets.Resolve(pk, time.Now())
	fmt.Printf("%s  income: %s\n", pk, formatMoney(ms.Income))
	for _, g := range ms.Groups {
		limit := budget.GroupLimit(ms, g)
		spent := a.budgets.SpentInGroup(g, pk)
		fmt.Printf("  %s %-16s %s / %s  [%s]\n",
			g.Icon, g.Name, formatMoney(spent), formatMoney(limit), budget.Classify(spent, limit))
	}
	return nil
}

func (a *app) cmdBudgetSet(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("budget-set", flag.ExitOnError)
	period := fs.String("period", core.CurrentPeriod(time.Now()).String(), "period YYYY-MM")
	income := fs.Float64("income", 0, "monthly income")
	file := fs.String("groups", "", "JSON file with the budget group array")
	fs.Parse(args)

	pk := core.PeriodKey(*period)
	if _, _, err := pk.Parse(); err != nil {
		return err
	}
	var groups []core.BudgetGroup
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			return err
		}
		if err := unmarshalGroups(data, &groups); err != nil {
			return err
		}
	}
	if err := a.budgets.Save(ctx, pk, groups, *income); err != nil {
		return err
	}
	fmt.Printf("saved budget for %s (%d groups)\n", pk, len(groups))
	return nil
}

func (a *app) cmdAssetAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("asset-add", flag.ExitOnError)
	name := fs.String("name", "", "asset name")
	typeStr := fs.String("type", "other", "asset type (stock, gold, silver, crypto, cash, property, deposit, other)")
	value := fs.Float64("value", 0, "stored value (principal for deposits)")
	quantity := fs.Float64("quantity", 0, "quantity in grams for metals")
	rate := fs.Float64("rate", 0, "annual interest rate percent (deposits)")
	months := fs.Float64("months", 0, "deposit period in months")
	tax := fs.Float64("tax", 0, "interest tax rate percent (deposits)")
	fs.Parse(args)

	typ, err := core.ParseAssetType(*typeStr)
	if err != nil {
		return err
	}
	added, err := a.assets.Add(ctx, core.Asset{
		Name:         *name,
		Type:         typ,
		Value:        *value,
		Quantity:     *quantity,
		InterestRate: *rate,
		PeriodMonths: *months,
		TaxRate:      *tax,
	})
	if err != nil {
		return err
	}
	fmt.Printf("added asset %s: %s\n", added.ID, added.Name)
	return nil
}

func (a *app) cmdAssetList(args []string) error {
	for _, asset := range a.st.Assets {
		fmt.Printf("%s  %-10s %-20s %s\n",
			asset.ID, asset.Type, asset.Name,
			formatMoney(assets.CurrentValue(asset, a.st.Prices)))
	}
	fmt.Printf("total: %s\n", formatMoney(a.assets.Total()))
	return nil
}

func (a *app) cmdAssetRemove(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("asset-remove", flag.ExitOnError)
	id := fs.String("id", "", "asset id")
	fs.Parse(args)
	return a.assets.Remove(ctx, *id)
}

func (a *app) cmdRefreshPrices(ctx context.Context) error {
	if a.cfg.PriceMetalURL == "" {
		return fmt.Errorf("no metal price endpoint configured (set PRICE_METAL_URL)")
	}
	feed := assets.NewHTTPFeed(a.cfg.PriceRateURL, a.cfg.PriceMetalURL)
	if err := assets.RefreshPrices(ctx, a.st, a.store, feed, time.Now()); err != nil {
		return err
	}
	fmt.Printf("gold %s/g, silver %s/g (updated %s)\n",
		formatMoney(a.st.Prices.Gold), formatMoney(a.st.Prices.Silver),
		a.st.Prices.LastUpdated.Format(time.RFC3339))
	return nil
}

func (a *app) cmdExport(args []string, export func(w io.Writer, st *state.AppState) error) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("out", "", "output file (defaults to stdout)")
	fs.Parse(args)

	var w io.Writer = os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return export(w, a.st)
}

func (a *app) cmdImport(ctx context.Context, args []string, importFn func(context.Context, io.Reader) (int, int, error)) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	in := fs.String("in", "", "input CSV file")
	fs.Parse(args)

	f, err := os.Open(*in)
	if err != nil {
		return err
	}
	defer f.Close()

	added, skipped, err := importFn(ctx, f)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d rows, skipped %d\n", added, skipped)
	return nil
}

func (a *app) cmdEncode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	out := fs.String("out", "", "output file (defaults to stdout)")
	fs.Parse(args)

	data, err := exchange.Encode(a.st, time.Now())
	if err != nil {
		var capErr *core.CapacityError
		if errors.As(err, &capErr) {
			return fmt.Errorf("%v; use the file-based export instead (spendwise export)", capErr)
		}
		return err
	}
	if *out != "" {
		return os.WriteFile(*out, data, 0644)
	}
	fmt.Println(string(data))
	return nil
}

func (a *app) cmdMerge(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	in := fs.String("in", "", "payload file")
	yes := fs.Bool("yes", false, "apply without the confirmation prompt")
	fs.Parse(args)

	data, err := os.ReadFile(*in)
	if err != nil {
		return err
	}
	ds, summary, err := a.sync.Preview(data)
	if err != nil {
		return err
	}
	if summary.Empty() {
		fmt.Println("nothing to merge")
		return nil
	}
	if !*yes && !confirm(fmt.Sprintf("merge %s?", summary)) {
		fmt.Println("merge cancelled")
		return nil
	}
	applied, err := a.sync.Apply(ctx, ds)
	if err != nil {
		return err
	}
	fmt.Printf("merged: %s\n", applied)
	return nil
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func formatMoney(v float64) string {
	// Whole-rupiah display with thousand separators.
	s := fmt.Sprintf("%.0f", v)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := "Rp " + strings.Join(parts, ".")
	if neg {
		out = "-" + out
	}
	return out
}

func unmarshalGroups(data []byte, groups *[]core.BudgetGroup) error {
	if err := json.Unmarshal(data, groups); err != nil {
		return fmt.Errorf("parse groups file: %w", err)
	}
	return nil
}
