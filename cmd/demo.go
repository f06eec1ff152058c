package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	catalogapp "campodigital/application/catalog"
	messageapp "campodigital/application/message"
	orderapp "campodigital/application/order"
	reviewapp "campodigital/application/review"
	userapp "campodigital/application/user"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var demoMigrate bool

// campodigital demo
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the sample purchase flow against the configured database",
	Long: "Registers a farmer and a consumer (reusing them when they already exist), lists two products, " +
		"places and settles an order, leaves reviews, exchanges messages and prints the result.",
	RunE: func(cmd *cobra.Command, args []string) error {
		b := NewBuilder(cfg)
		if demoMigrate {
			b = b.WithMigrations()
		}
		app, err := b.Build(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		_, err = RunDemo(cmd.Context(), app, cmd.OutOrStdout())
		return err
	},
}

func init() {
	demoCmd.Flags().BoolVar(&demoMigrate, "migrate", false, "migrate the schema before running")
}

// DemoResult carries the ids created by one demo run.
type DemoResult struct {
	FarmerID   uint64
	ConsumerID uint64
	ProductIDs []uint64
	OrderID    uint64
	ReviewIDs  []uint64
	MessageIDs []uint64
}

// RunDemo walks the purchase flow end to end and writes a report to w.
func RunDemo(ctx context.Context, app *App, w io.Writer) (*DemoResult, error) {
	res := &DemoResult{}

	// 1. accounts
	farmer, err := ensureUser(ctx, app.Users, userapp.RegisterRequest{
		Email:     "nuevo_agricultor@ejemplo.com",
		Password:  "contraseña123",
		Name:      "Pedro Agricultor",
		Phone:     "3001112233",
		Role:      "agricultor",
		Latitude:  ptr(4.6234),
		Longitude: ptr(-74.0836),
		Address:   "Finca La Esperanza, Vía Choachí",
		Bio:       "Agricultor de productos orgánicos con 10 años de experiencia",
	})
	if err != nil {
		return nil, fmt.Errorf("register farmer: %w", err)
	}
	consumer, err := ensureUser(ctx, app.Users, userapp.RegisterRequest{
		Email:     "nuevo_consumidor@ejemplo.com",
		Password:  "contraseña456",
		Name:      "Laura Consumidora",
		Phone:     "3109998877",
		Role:      "consumidor",
		Latitude:  ptr(4.6560),
		Longitude: ptr(-74.0595),
		Address:   "Calle 93 #11-30, Bogotá",
		Bio:       "Amante de los productos frescos y orgánicos",
	})
	if err != nil {
		return nil, fmt.Errorf("register consumer: %w", err)
	}
	res.FarmerID, res.ConsumerID = farmer.ID, consumer.ID
	fmt.Fprintf(w, "Farmer ID: %d\n", farmer.ID)
	fmt.Fprintf(w, "Consumer ID: %d\n", consumer.ID)

	// 2. listings with a primary image each
	today := time.Now().UTC().Truncate(24 * time.Hour)
	listings := []struct {
		req   catalogapp.CreateProductRequest
		image string
	}{
		{
			req: catalogapp.CreateProductRequest{
				OwnerID:     farmer.ID,
				Name:        "Yuca Fresca",
				Description: "Yuca recién cosechada, ideal para sancocho y acompañamientos",
				Price:       decimal.RequireFromString("2500.00"),
				Quantity:    decimal.RequireFromString("80.00"),
				Unit:        "kg",
				Category:    "Tubérculos",
				HarvestDate: ptr(today.AddDate(0, 0, -3)),
			},
			image: "https://ejemplo.com/imagenes/yuca1.jpg",
		},
		{
			req: catalogapp.CreateProductRequest{
				OwnerID:     farmer.ID,
				Name:        "Plátano Hartón",
				Description: "Plátano hartón verde para patacones y cocidos",
				Price:       decimal.RequireFromString("3000.00"),
				Quantity:    decimal.RequireFromString("100.00"),
				Unit:        "kg",
				Category:    "Plátanos",
				HarvestDate: ptr(today.AddDate(0, 0, -2)),
			},
			image: "https://ejemplo.com/imagenes/platano1.jpg",
		},
	}
	for _, l := range listings {
		id, err := app.Catalog.CreateProduct(ctx, l.req)
		if err != nil {
			return nil, fmt.Errorf("create product %q: %w", l.req.Name, err)
		}
		if _, err := app.Catalog.AddProductImage(ctx, id, l.image, true); err != nil {
			return nil, fmt.Errorf("add image to product %d: %w", id, err)
		}
		res.ProductIDs = append(res.ProductIDs, id)
	}
	fmt.Fprintf(w, "Products created: Yuca (ID: %d), Plátano (ID: %d)\n", res.ProductIDs[0], res.ProductIDs[1])

	// 3. the order, header and details in one transaction
	five := decimal.RequireFromString("5.00")
	orderID, err := app.Orders.PlaceOrder(ctx, orderapp.PlaceOrderRequest{
		BuyerID:         consumer.ID,
		SellerID:        farmer.ID,
		DeliveryAddress: "Calle 93 #11-30, Bogotá",
		DeliveryDate:    ptr(today.AddDate(0, 0, 2)),
		PaymentMethod:   "transfer",
		Notes:           "Por favor entregar en la mañana",
		Details: []orderapp.OrderDetailRequest{
			{ProductID: res.ProductIDs[0], Quantity: five, UnitPrice: listings[0].req.Price},
			{ProductID: res.ProductIDs[1], Quantity: five, UnitPrice: listings[1].req.Price},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}
	res.OrderID = orderID
	fmt.Fprintf(w, "Order ID: %d\n", orderID)

	if err := app.Orders.UpdateOrderStatus(ctx, orderapp.UpdateOrderStatusRequest{OrderID: orderID, Status: "confirmed"}); err != nil {
		return nil, fmt.Errorf("confirm order: %w", err)
	}
	if err := app.Orders.UpdatePaymentStatus(ctx, orderapp.UpdatePaymentStatusRequest{OrderID: orderID, PaymentStatus: "completed"}); err != nil {
		return nil, fmt.Errorf("complete payment: %w", err)
	}
	fmt.Fprintln(w, "Order confirmed, payment completed")

	// 4. reviews
	reviews := []struct {
		productID uint64
		rating    int
		comment   string
	}{
		{res.ProductIDs[0], 5, "Excelente yuca, muy fresca y de buen tamaño"},
		{res.ProductIDs[1], 4, "Buen plátano, aunque algunos estaban un poco maduros"},
	}
	for _, r := range reviews {
		id, err := app.Reviews.Submit(ctx, reviewapp.SubmitReviewRequest{
			ReviewerID: consumer.ID,
			ReviewedID: farmer.ID,
			Rating:     r.rating,
			Comment:    r.comment,
			OrderID:    ptr(orderID),
			ProductID:  ptr(r.productID),
		})
		if err != nil {
			return nil, fmt.Errorf("submit review: %w", err)
		}
		res.ReviewIDs = append(res.ReviewIDs, id)
	}
	fmt.Fprintf(w, "Reviews created: %d, %d\n", res.ReviewIDs[0], res.ReviewIDs[1])

	// 5. messages
	if err := sendAll(ctx, app.Messages, res, []message{
		{consumer.ID, farmer.ID, "¡Gracias por los productos! ¿Tendrás maracuyá disponible próximamente?"},
		{farmer.ID, consumer.ID, "¡Con gusto! Sí, tendré maracuyá fresca en dos semanas aproximadamente."},
	}); err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "Messages exchanged: %d, %d\n", res.MessageIDs[0], res.MessageIDs[1])

	// 6. report
	if err := printOrder(ctx, app.Orders, orderID, w); err != nil {
		return nil, err
	}
	if err := printAvailable(ctx, app.Catalog, w); err != nil {
		return nil, err
	}
	return res, nil
}

// ensureUser registers the account, or returns the existing one with the same email.
func ensureUser(ctx context.Context, users *userapp.ApplicationService, req userapp.RegisterRequest) (*userapp.UserResponse, error) {
	existing, err := users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	return users.Register(ctx, req)
}

type message struct {
	from, to uint64
	body     string
}

func sendAll(ctx context.Context, messages *messageapp.ApplicationService, res *DemoResult, batch []message) error {
	for _, m := range batch {
		id, err := messages.Send(ctx, m.from, m.to, m.body)
		if err != nil {
			return fmt.Errorf("send message: %w", err)
		}
		res.MessageIDs = append(res.MessageIDs, id)
	}
	return nil
}

func printOrder(ctx context.Context, orders *orderapp.ApplicationService, orderID uint64, w io.Writer) error {
	o, err := orders.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if o == nil {
		return fmt.Errorf("order %d vanished after commit", orderID)
	}
	details, err := orders.GetOrderDetails(ctx, orderID)
	if err != nil {
		return err
	}

	delivery := "-"
	if o.DeliveryDate != nil {
		delivery = o.DeliveryDate.Format(time.DateOnly)
	}

	fmt.Fprintln(w, "\n--- Order ---")
	fmt.Fprintf(w, "Order #%d\n", o.ID)
	fmt.Fprintf(w, "Buyer: %s (%s)\n", o.BuyerName, o.BuyerPhone)
	fmt.Fprintf(w, "Seller: %s (%s)\n", o.SellerName, o.SellerPhone)
	fmt.Fprintf(w, "Total: $%s\n", o.TotalAmount.StringFixed(2))
	fmt.Fprintf(w, "Status: %s\n", o.Status)
	fmt.Fprintf(w, "Payment status: %s\n", o.PaymentStatus)
	fmt.Fprintf(w, "Delivery address: %s\n", o.DeliveryAddress)
	fmt.Fprintf(w, "Delivery date: %s\n", delivery)

	fmt.Fprintln(w, "\n--- Order details ---")
	for _, d := range details {
		fmt.Fprintf(w, "- %s: %s %s x $%s = $%s\n",
			d.ProductName, d.Quantity.StringFixed(2), d.Unit, d.UnitPrice.StringFixed(2), d.Subtotal.StringFixed(2))
	}
	return nil
}

func printAvailable(ctx context.Context, catalog *catalogapp.ApplicationService, w io.Writer) error {
	products, err := catalog.GetAvailableProducts(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "\n--- Available products ---")
	for _, p := range products {
		fmt.Fprintf(w, "- %s: $%s per %s (Seller: %s)\n", p.Name, p.Price.StringFixed(2), p.Unit, p.SellerName)
	}
	return nil
}

func ptr[T any](v T) *T { return &v }
