package service

import (
	"context"
	"log"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"sertifikasiku_backend/internals/configs"
	applicationModel "sertifikasiku_backend/internals/features/applications/model"
)

var snapClient snap.Client

// InitMidtrans dipanggil sekali saat boot, setelah LoadEnv.
func InitMidtrans() {
	env := midtrans.Sandbox
	if configs.GetEnv("MIDTRANS_ENV", "sandbox") == "production" {
		env = midtrans.Production
	}
	snapClient.New(configs.MidtransServerKey, env)
	log.Println("[INFO] Midtrans snap client siap")
}

// MidtransGateway membuat Snap transaction untuk tagihan sertifikasi dan
// mengembalikan token + redirect URL pembayaran.
type MidtransGateway struct{}

func (MidtransGateway) CreateInvoice(_ context.Context, app applicationModel.ApplicationModel, custName, custEmail string) (string, string, error) {
	orderID := ""
	if app.ApplicationPaymentExternalID != nil {
		orderID = *app.ApplicationPaymentExternalID
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: int64(app.ApplicationPaymentAmountIDR),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: custName,
			Email: custEmail,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    app.ApplicationID.String(),
				Name:  "Biaya Sertifikasi Coating Inspector",
				Price: int64(app.ApplicationPaymentAmountIDR),
				Qty:   1,
			},
		},
		Callbacks: &snap.Callbacks{
			Finish: configs.PaymentSuccessURL,
		},
	}

	resp, midErr := snapClient.CreateTransaction(req)
	if midErr != nil {
		return "", "", midErr
	}
	return resp.Token, resp.RedirectURL, nil
}
