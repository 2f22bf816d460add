package cbr

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/lendbook/loan-service/internal/config"
)

const keyRateXML = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://www.w3.org/2003/05/soap-envelope">
	<soap:Body>
		<KeyRateResponse xmlns="http://web.cbr.ru/">
			<KeyRateResult>
				<diffgram>
					<KeyRate>
						<KR><DT>2026-08-28T00:00:00+03:00</DT><Rate>16.00</Rate></KR>
						<KR><DT>2026-08-27T00:00:00+03:00</DT><Rate>15.50</Rate></KR>
					</KeyRate>
				</diffgram>
			</KeyRateResult>
		</KeyRateResponse>
	</soap:Body>
</soap:Envelope>`

func newTestClient(url string, margin float64) *Client {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewClient(&config.Config{CBRURL: url, BankMargin: margin}, log)
}

func TestGetKeyRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		fmt.Fprint(w, keyRateXML)
	}))
	defer srv.Close()

	rate, err := newTestClient(srv.URL, 5).GetKeyRate()

	assert.NoError(t, err)
	// latest rate plus bank margin
	assert.Equal(t, 21.0, rate)
}

func TestGetKeyRate_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 5).GetKeyRate()

	assert.Error(t, err)
}

func TestGetKeyRate_EmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<?xml version="1.0"?><empty/>`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 5).GetKeyRate()

	assert.Error(t, err)
}
