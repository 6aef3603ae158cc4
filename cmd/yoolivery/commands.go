package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"

	"yoolivery/internal/domain/model"
	"yoolivery/internal/storefront"
	"yoolivery/internal/usecase"
	auth "yoolivery/internal/usecase/auth_usecase"

	"github.com/google/uuid"
)

type usageError struct {
	msg string
}

func (e usageError) Error() string { return e.msg }

func usagef(format string, a ...any) error {
	return usageError{msg: fmt.Sprintf(format, a...)}
}

type command func(ctx context.Context, b storefront.Backend, args []string, w io.Writer) error

var commands = map[string]command{
	"categories":     cmdCategories,
	"products":       cmdProducts,
	"product":        cmdProduct,
	"register":       cmdRegister,
	"login":          cmdLogin,
	"logout":         cmdLogout,
	"profile":        cmdProfile,
	"profile-update": cmdProfileUpdate,
	"cart":           cmdCart,
	"add":            cmdAdd,
	"set":            cmdSet,
	"remove":         cmdRemove,
	"clear":          cmdClear,
	"checkout":       cmdCheckout,
	"orders":         cmdOrders,
	"order":          cmdOrder,
}

func execute(ctx context.Context, b storefront.Backend, args []string, w io.Writer) error {
	cmd, ok := commands[args[0]]
	if !ok {
		return usagef("unknown command %q (see yoolivery help)", args[0])
	}
	return cmd(ctx, b, args[1:], w)
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return usagef("%s: %v", fs.Name(), err)
	}
	return nil
}

// 先頭の位置引数（id）とフラグを分ける
func parseWithID(fs *flag.FlagSet, args []string) (string, error) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "", usagef("%s: id is required", fs.Name())
	}
	if err := parse(fs, args[1:]); err != nil {
		return "", err
	}
	return args[0], nil
}

// 50000 → ₹500.00
func rupees(paise int64) string {
	sign := ""
	if paise < 0 {
		sign = "-"
		paise = -paise
	}
	return fmt.Sprintf("%s₹%d.%02d", sign, paise/100, paise%100)
}

func cmdCategories(ctx context.Context, b storefront.Backend, args []string, w io.Writer) error {
	if err := parse(newFlagSet("categories"), args); err != nil {
		return err
	}
	cats, err := b.ListCategories(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, c := range cats {
		fmt.Fprintf(tw, "%s\t%d\n", c.Name, c.Count)
	}
	return tw.Flush()
}

func cmdProducts(ctx context.Context, b storefront.Backend, args []string, w io.Writer) error {
	fs := newFlagSet("products")
	category := fs.String("category", "", "category (All for every category)")
	search := fs.String("search", "", "name or brand")
	page := fs.Int("page", 0, "page")
	limit := fs.Int("limit", 0, "page size")
	if err := parse(fs, args); err != nil {
		return err
	}

	out, err := b.ListProducts(ctx, usecase.ListProductsInput{
		Page:     *page,
		Limit:    *limit,
		Category: *category,
		Search:   *search,
	})
	if err != nil {
		return err
	}
	if len(out.Items) == 0 {
		fmt.Fprintln(w, "no products found")
		return nil
	}
	printProducts(w, out.Items)
	fmt.Fprintf(w, "page %d, %d of %d\n", out.Page, len(out.Items), out.Total)
	return nil
}

func printProducts(w io.Writer, products []model.Product) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Category, rupees(p.PricePaise))
	}
	_ = tw.Flush()
}

func cmdProduct(ctx context.Context, b storefront.Backend, args []string, w io.Writer) error {
	id, err := parseWithID(newFlagSet("product"), args)
	if err != nil {
		return err
	}
	p, err := b.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s (%s)\n", p.Name, p.ID)
	fmt.Fprintf(w, "brand:    %s\n", p.Brand)
	fmt.Fprintf(w, "category: %s\n", p.Category)
	fmt.Fprintf(w, "volume:   %dml\n", p.VolumeMl)
	fmt.Fprintf(w, "price:    %s\n", rupees(p.PricePaise))
	if p.ABV != nil {
		fmt.Fprintf(w, "abv:      %.1f%%\n", *p.ABV)
	}
	if p.Origin != "" {
		fmt.Fprintf(w, "origin:   %s\n", p.Origin)
	}
	if p.Description != "" {
		fmt.Fprintln(w, p.Description)
	}
	return nil
}

func cmdRegister(ctx context.Context, b storefront.Backend, args []string, w io.Writer) error {
	fs := newFlagSet("register")
	var in auth.RegisterUserInput
	fs.StringVar(&in.Name, "name", "", "full name")
	fs.StringVar(&in.Email, "email", "", "email")
	fs.StringVar(&in.Password, "password", "", "password (6+ chars)")
	fs.StringVar(&in.DOB, "dob", "", "date of birth YYYY-MM-DD")
	fs.StringVar(&in.AadhaarLast4, "aadhaar", "", "last 4 digits of Aadhaar")
	fs.StringVar(&in.Phone, "phone", "", "phone")
	fs.StringVar(&in.Address, "address", "", "delivery address")
	if err := parse(fs, args); err != nil {
		return err
	}

	u, err := b.Register(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "welcome, %s! you are signed in as %s\n", u.Name, u.Email)
	return nil
}

func cmdLogin(ctx context.Context, b storefront.Backend, args []string, w io.Writer) error {
	fs := newFlagSet("login")
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	if err := parse(fs, args); err != nil {
		return err
	}

	ok, err := b.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if !ok {
		return usecase.NewHTTPError(http.StatusBadRequest, "Invalid credentials")
	}
	fmt.Fprintln(w, "signed in")
	return nil
}

func cmdLogout(ctx context.Context, b storefront.Backend, args []string, w io.Writer) error {
	if err := parse(newFlagSet("logout"), args); err != nil {
		return err
	}
	if err := b.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(w, "signed out")
	return nil
}

func cmdProfile(ctx context.Context, b storefront.Backend, args []string, w io.Writer) error {
	if err := parse(newFlagSet("profile"), args); err != nil {
		return err
	}
	p, err := b.Profile(ctx)
	if err != nil {
		return err
	}
	printProfile(w, p)
	return nil
}

func cmdProfileUpdate(ctx context.Context, b storefront.Backend, args []string, w io.Writer) error {
	fs := newFlagSet("profile-update")
	name := fs.String("name", "", "full name")
	phone := fs.String("phone", "", "phone")
	address := fs.String("address", "", "delivery address")
	if err := parse(fs, args); err != nil {
		return err
	}

	// 指定されたフラグだけ送る
	var in auth.UpdateProfileInput
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			in.Name = name
		case "phone":
			in.Phone = phone
		case "address":
			in.Address = address
		}
	})

	p, err := b.UpdateProfile(ctx, in)
	if err != nil {
		return err
	}
	printProfile(w, p)
	return nil
}

func printProfile(w io.Writer, p auth.ProfileOutput) {
	fmt.Fprintf(w, "name:    %s\n", p.Name)
	fmt.Fprintf(w, "email:   %s\n", p.Email)
	fmt.Fprintf(w, "phone:   %s\n", p.Phone)
	fmt.Fprintf(w, "address: %s\n", p.Address)
	fmt.Fprintf(w, "dob:     %s\n", p.DOB)
}

func cmdCart(ctx context.Context, b storefront.Backend, args []string, w io.Writer) error {
	if err := parse(newFlagSet("cart"), args); err != nil {
		return err
	}
	c, err := b.Cart(ctx)
	if err != nil {
		return err
	}
	printCart(w, c)
	return nil
}

func cmdAdd(ctx context.Context, b storefront.Backend, args []string, w io.Writer) error {
	fs := newFlagSet("add")
	qty := fs.Int64("qty", 1, "quantity")
	id, err := parseWithID(fs, args)
	if err != nil {
		return err
	}
	c, err := b.AddItem(ctx, id, *qty)
	if err != nil {
		return err
	}
	printCart(w, c)
	return nil
}

func cmdSet(ctx context.Context, b storefront.Backend, args []string, w io.Writer) error {
	fs := newFlagSet("set")
	qty := fs.Int64("qty", -1, "quantity (0 removes)")
	id, err := parseWithID(fs, args)
	if err != nil {
		return err
	}
	if *qty < 0 {
		return usagef("set: -qty is required")
	}
	c, err := b.SetQuantity(ctx, id, *qty)
	if err != nil {
		return err
	}
	printCart(w, c)
	return nil
}

func cmdRemove(ctx context.Context, b storefront.Backend, args []string, w io.Writer) error {
	id, err := parseWithID(newFlagSet("remove"), args)
	if err != nil {
		return err
	}
	c, err := b.RemoveItem(ctx, id)
	if err != nil {
		return err
	}
	printCart(w, c)
	return nil
}

func cmdClear(ctx context.Context, b storefront.Backend, args []string, w io.Writer) error {
	if err := parse(newFlagSet("clear"), args); err != nil {
		return err
	}
	c, err := b.ClearCart(ctx)
	if err != nil {
		return err
	}
	printCart(w, c)
	return nil
}

func printCart(w io.Writer, c usecase.CartOutput) {
	if len(c.Items) == 0 {
		fmt.Fprintln(w, "your cart is empty")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tUNIT\tTOTAL")
	for _, it := range c.Items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			it.ProductID, it.Product.Name, it.Quantity, rupees(it.Product.PricePaise), rupees(it.LineTotalPaise))
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "%d items, total %s\n", c.TotalQuantity, rupees(c.TotalPricePaise))
}

func cmdCheckout(ctx context.Context, b storefront.Backend, args []string, w io.Writer) error {
	fs := newFlagSet("checkout")
	address := fs.String("address", "", "delivery address")
	payment := fs.String("payment", "COD", "payment method")
	key := fs.String("key", "", "idempotency key (generated when empty)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *key == "" {
		*key = uuid.NewString()
	}

	o, err := b.Checkout(ctx, usecase.PlaceOrderInput{
		Address:        *address,
		PaymentMethod:  *payment,
		IdempotencyKey: *key,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "order placed: %s\n", o.ID)
	printOrder(w, o)
	return nil
}

func cmdOrders(ctx context.Context, b storefront.Backend, args []string, w io.Writer) error {
	if err := parse(newFlagSet("orders"), args); err != nil {
		return err
	}
	orders, err := b.Orders(ctx)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Fprintln(w, "no orders yet")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPLACED\tSTATUS\tITEMS\tTOTAL")
	for _, o := range orders {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			o.ID, o.CreatedAt.Local().Format("2006-01-02 15:04"), o.Status, len(o.Items), rupees(o.TotalPricePaise))
	}
	return tw.Flush()
}

func cmdOrder(ctx context.Context, b storefront.Backend, args []string, w io.Writer) error {
	id, err := parseWithID(newFlagSet("order"), args)
	if err != nil {
		return err
	}
	o, err := b.Order(ctx, id)
	if err != nil {
		return err
	}
	printOrder(w, o)
	return nil
}

func printOrder(w io.Writer, o usecase.OrderOutput) {
	fmt.Fprintf(w, "status:  %s (%s)\n", o.Status, o.PaymentMethod)
	fmt.Fprintf(w, "address: %s\n", o.Address)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, it := range o.Items {
		fmt.Fprintf(tw, "  %s\t%d x %s\t%s\n",
			it.Name, it.Quantity, rupees(it.UnitPricePaise), rupees(it.UnitPricePaise*it.Quantity))
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "total:   %s\n", rupees(o.TotalPricePaise))
}
