package service

import "github.com/shopspring/decimal"

const (
	MinVIPLevel = 0
	MaxVIPLevel = 3
)

// Ставка прямого реферера (уровень 1) растет с VIP уровнем предка.
// Уровни 2 и 3 платят фиксированный процент независимо от VIP.
var (
	directRates    = [MaxVIPLevel + 1]int64{20, 30, 40, 50}
	levelTwoRate   = decimal.NewFromInt(10)
	levelThreeRate = decimal.NewFromInt(5)
)

// RateFor возвращает процент комиссии для предка с VIP уровнем vipLevel,
// находящегося на уровне referralLevel цепочки. Функция чистая и тотальная:
// VIP уровень вне диапазона ужимается в [0, 3], уровень цепочки вне [1, 3]
// дает нулевую ставку.
func RateFor(vipLevel, referralLevel int) decimal.Decimal {
	if vipLevel < MinVIPLevel {
		vipLevel = MinVIPLevel
	}
	if vipLevel > MaxVIPLevel {
		vipLevel = MaxVIPLevel
	}

	switch referralLevel {
	case 1:
		return decimal.NewFromInt(directRates[vipLevel])
	case 2:
		return levelTwoRate
	case 3:
		return levelThreeRate
	}
	return decimal.Zero
}

// CommissionAmount считает сумму комиссии: round(amount × percentage / 100)
// с точностью до сотых.
func CommissionAmount(amount, percentage decimal.Decimal) decimal.Decimal {
	return amount.Mul(percentage).Div(decimal.NewFromInt(100)).Round(2) //nolint:mnd
}
