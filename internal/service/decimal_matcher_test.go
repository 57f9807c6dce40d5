package service

import (
	"fmt"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
)

// decimalEq матчер денежных сумм по значению: gomock.Eq сравнивает decimal
// через reflect.DeepEqual и спотыкается об разные экспоненты у равных чисел.
func decimalEq(want decimal.Decimal) gomock.Matcher {
	return decimalMatcher{want: want}
}

type decimalMatcher struct {
	want decimal.Decimal
}

func (m decimalMatcher) Matches(x interface{}) bool {
	got, ok := x.(decimal.Decimal)
	return ok && got.Equal(m.want)
}

func (m decimalMatcher) String() string {
	return fmt.Sprintf("is equal to %s", m.want)
}
