package chain

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/zeecrowd/zeecrowd/internal/campaign/domain"
)

//go:embed abi.json
var crowdfundingABIJSON []byte

// Contract method names on the deployed Crowdfunding contract.
const (
	methodCampaignCount  = "campaignCount"
	methodCampaignAt     = "campaigns"
	methodContribute     = "contribute"
	methodCreateCampaign = "createCampaign"
	methodWithdrawFunds  = "withdrawFunds"
)

// CrowdfundingABI parses the embedded contract ABI.
func CrowdfundingABI() (abi.ABI, error) {
	parsed, err := abi.JSON(bytes.NewReader(crowdfundingABIJSON))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parse crowdfunding abi: %w", err)
	}
	return parsed, nil
}

// decodeCampaignRecord unpacks the return data of a campaigns(uint256) call
// into a raw record carrying both the positional and the named shape.
//
// Named unpacking depends on output names being present in the deployed
// contract's ABI; positional values are always produced when the data decodes
// at all. The record decoder downstream picks whichever shape fits.
func decodeCampaignRecord(contractABI abi.ABI, data []byte) (domain.RawRecord, error) {
	values, err := contractABI.Unpack(methodCampaignAt, data)
	if err != nil {
		return domain.RawRecord{}, fmt.Errorf("unpack campaign record: %w", err)
	}

	rec := domain.RawRecord{Values: values}

	named := map[string]any{}
	if err := contractABI.UnpackIntoMap(named, methodCampaignAt, data); err == nil && len(named) > 0 {
		rec.Fields = named
	}
	return rec, nil
}
