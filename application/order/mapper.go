package order

import "campodigital/domain/order"

func toPlacement(req PlaceOrderRequest) order.Placement {
	lines := make([]order.Line, len(req.Details))
	for i, d := range req.Details {
		lines[i] = order.Line{
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
			UnitPrice: d.UnitPrice,
		}
	}
	return order.Placement{
		BuyerID:         req.BuyerID,
		SellerID:        req.SellerID,
		Total:           req.TotalAmount,
		DeliveryAddress: req.DeliveryAddress,
		DeliveryDate:    req.DeliveryDate,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
		Lines:           lines,
	}
}

func productIDs(details []OrderDetailRequest) []uint64 {
	ids := make([]uint64, len(details))
	for i, d := range details {
		ids[i] = d.ProductID
	}
	return ids
}

func toOrderResponse(v *order.View) *OrderResponse {
	return &OrderResponse{
		ID:              v.ID,
		BuyerID:         v.BuyerID,
		BuyerName:       v.BuyerName,
		BuyerPhone:      v.BuyerPhone,
		SellerID:        v.SellerID,
		SellerName:      v.SellerName,
		SellerPhone:     v.SellerPhone,
		TotalAmount:     v.Total,
		DeliveryAddress: v.DeliveryAddress,
		DeliveryDate:    v.DeliveryDate,
		PaymentMethod:   v.PaymentMethod,
		Status:          string(v.Status),
		PaymentStatus:   string(v.PaymentStatus),
		Notes:           v.Notes,
		CreatedAt:       v.CreatedAt,
	}
}

func toDetailResponses(details []order.DetailView) []OrderDetailResponse {
	out := make([]OrderDetailResponse, len(details))
	for i, d := range details {
		out[i] = OrderDetailResponse{
			ID:          d.ID,
			OrderID:     d.OrderID,
			ProductID:   d.ProductID,
			ProductName: d.ProductName,
			Unit:        d.Unit,
			Quantity:    d.Quantity,
			UnitPrice:   d.UnitPrice,
			Subtotal:    d.Subtotal,
		}
	}
	return out
}

func toSummaryResponses(summaries []order.Summary) []OrderSummaryResponse {
	out := make([]OrderSummaryResponse, len(summaries))
	for i, s := range summaries {
		out[i] = OrderSummaryResponse{
			ID:              s.ID,
			CounterpartID:   s.CounterpartID,
			CounterpartName: s.CounterpartName,
			TotalAmount:     s.Total,
			Status:          string(s.Status),
			PaymentStatus:   string(s.PaymentStatus),
			CreatedAt:       s.CreatedAt,
		}
	}
	return out
}
