package list_messages

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/bellefontaine/circuit-booking/internal/service/messages/models"
)

// ToServiceRequest собирает фильтр из query параметров
func ToServiceRequest(q url.Values) (*models.ListMessagesRequest, error) {
	read, err := optionalBool(q, "read")
	if err != nil {
		return nil, err
	}
	replied, err := optionalBool(q, "replied")
	if err != nil {
		return nil, err
	}

	return &models.ListMessagesRequest{
		Read:    read,
		Replied: replied,
		Search:  q.Get("search"),
		SortBy:  q.Get("sort"),
		Order:   q.Get("order"),
	}, nil
}

func optionalBool(q url.Values, name string) (*bool, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be true or false", name)
	}
	return &v, nil
}
