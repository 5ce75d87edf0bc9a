package domain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	apperrors "github.com/zeecrowd/zeecrowd/internal/platform/errors"
)

// RawRecord is a campaign record as returned by the contract, before
// normalization. Depending on the contract version the client sees either a
// positionally-ordered tuple, a field-named record, or both.
type RawRecord struct {
	// Values holds the tuple fields in declaration order, when available.
	Values []any
	// Fields holds the tuple fields keyed by name, when the ABI carries names.
	Fields map[string]any
}

// positional field order of the Crowdfunding campaign struct.
const (
	posCreator = iota
	posGoalAmount
	posDeadline
	posFundsRaised
	posIsSuccessful
	posIsWithdrawn
	posIsCanceled
	recordFieldCount
)

var fieldNames = [recordFieldCount]string{
	"creator", "goalAmount", "deadline", "fundsRaised",
	"isSuccessful", "isWithdrawn", "isCanceled",
}

// DecodeRecord normalizes a raw contract record into a Campaign.
//
// It decodes positionally first and falls back to named fields; a record that
// fits neither shape fails with UNRECOGNIZED_RECORD_SHAPE rather than being
// silently misread.
func DecodeRecord(id uint64, rec RawRecord) (Campaign, error) {
	fields, err := recordFields(rec)
	if err != nil {
		return Campaign{}, err
	}

	campaign := Campaign{ID: id}
	if campaign.Creator, err = toAddress(fields[posCreator]); err != nil {
		return Campaign{}, decodeError(id, fieldNames[posCreator], err)
	}
	if campaign.GoalAmount, err = toAmount(fields[posGoalAmount]); err != nil {
		return Campaign{}, decodeError(id, fieldNames[posGoalAmount], err)
	}
	if campaign.Deadline, err = toTimestamp(fields[posDeadline]); err != nil {
		return Campaign{}, decodeError(id, fieldNames[posDeadline], err)
	}
	if campaign.FundsRaised, err = toAmount(fields[posFundsRaised]); err != nil {
		return Campaign{}, decodeError(id, fieldNames[posFundsRaised], err)
	}
	if campaign.IsSuccessful, err = toBool(fields[posIsSuccessful]); err != nil {
		return Campaign{}, decodeError(id, fieldNames[posIsSuccessful], err)
	}
	if campaign.IsWithdrawn, err = toBool(fields[posIsWithdrawn]); err != nil {
		return Campaign{}, decodeError(id, fieldNames[posIsWithdrawn], err)
	}
	if campaign.IsCanceled, err = toBool(fields[posIsCanceled]); err != nil {
		return Campaign{}, decodeError(id, fieldNames[posIsCanceled], err)
	}
	return campaign, nil
}

// recordFields selects the tuple values to decode: the positional shape when
// it has the expected arity, otherwise the named shape.
func recordFields(rec RawRecord) ([recordFieldCount]any, error) {
	var fields [recordFieldCount]any

	if len(rec.Values) == recordFieldCount {
		copy(fields[:], rec.Values)
		return fields, nil
	}

	if len(rec.Fields) >= recordFieldCount {
		for i, name := range fieldNames {
			value, ok := rec.Fields[name]
			if !ok {
				return fields, apperrors.WithMetadata(apperrors.CodeUnrecognizedRecord,
					fmt.Sprintf("record is missing field %q", name),
					map[string]string{"field": name})
			}
			fields[i] = value
		}
		return fields, nil
	}

	return fields, apperrors.WithMetadata(apperrors.CodeUnrecognizedRecord,
		fmt.Sprintf("record has %d positional and %d named fields, want %d",
			len(rec.Values), len(rec.Fields), recordFieldCount),
		map[string]string{
			"positional": fmt.Sprint(len(rec.Values)),
			"named":      fmt.Sprint(len(rec.Fields)),
		})
}

func decodeError(id uint64, field string, cause error) error {
	return apperrors.Wrap(apperrors.CodeUnrecognizedRecord,
		fmt.Sprintf("campaign %d: field %q: %v", id, field, cause), cause)
}

func toAddress(v any) (common.Address, error) {
	switch val := v.(type) {
	case common.Address:
		return val, nil
	case [20]byte:
		return common.Address(val), nil
	case string:
		if !common.IsHexAddress(val) {
			return common.Address{}, fmt.Errorf("not a hex address: %q", val)
		}
		return common.HexToAddress(val), nil
	default:
		return common.Address{}, fmt.Errorf("unexpected address type %T", v)
	}
}

func toAmount(v any) (*big.Int, error) {
	switch val := v.(type) {
	case *big.Int:
		if val == nil {
			return nil, fmt.Errorf("nil amount")
		}
		if val.Sign() < 0 {
			return nil, fmt.Errorf("negative amount %s", val)
		}
		return new(big.Int).Set(val), nil
	case uint64:
		return new(big.Int).SetUint64(val), nil
	default:
		return nil, fmt.Errorf("unexpected amount type %T", v)
	}
}

func toTimestamp(v any) (uint64, error) {
	switch val := v.(type) {
	case *big.Int:
		if val == nil || val.Sign() < 0 || !val.IsUint64() {
			return 0, fmt.Errorf("timestamp out of range: %v", val)
		}
		return val.Uint64(), nil
	case uint64:
		return val, nil
	default:
		return 0, fmt.Errorf("unexpected timestamp type %T", v)
	}
}

func toBool(v any) (bool, error) {
	val, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("unexpected flag type %T", v)
	}
	return val, nil
}
