package po

// All lists every persistence object in migration order: referenced tables first.
func All() []any {
	return []any{
		&UserPO{},
		&ProductPO{},
		&ProductImagePO{},
		&OrderPO{},
		&OrderDetailPO{},
		&ReviewPO{},
		&MessagePO{},
		&OutboxEventPO{},
	}
}
