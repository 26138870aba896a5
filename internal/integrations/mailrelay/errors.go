package mailrelay

import (
	"fmt"

	"github.com/bellefontaine/circuit-booking/internal/domain"
)

var (
	// ErrDeliveryFailed возвращается, когда сервис не подтвердил отправку письма
	ErrDeliveryFailed = fmt.Errorf("mailrelay client: delivery failed: %w", domain.ErrRelay)

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = fmt.Errorf("mailrelay client: internal error: %w", domain.ErrRelay)
)
