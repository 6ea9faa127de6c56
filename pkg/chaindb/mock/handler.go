package mock

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/chaindb/chaindb_sdk_go/pkg/chaindb"
)

// Handler serves the ChainDB HTTP API backed by m.
func Handler(m *Mock) http.Handler {
	b := &backend{m: m}
	r := mux.NewRouter().UseEncodedPath()

	r.HandleFunc(chaindb.PathLastContractTransaction+"/{id}/{key}", func(w http.ResponseWriter, req *http.Request) {
		v := vars(req)
		write(w)(b.LastContractTransaction(req.Context(), v["id"], v["key"]))
	}).Methods(http.MethodGet)

	r.HandleFunc(chaindb.PathContractTransactions+"/{id}/{key}/{depth}", func(w http.ResponseWriter, req *http.Request) {
		v := vars(req)
		depth, err := strconv.Atoi(v["depth"])
		if err != nil {
			http.Error(w, "depth must be an integer", http.StatusBadRequest)
			return
		}
		write(w)(b.ContractTransactions(req.Context(), v["id"], v["key"], depth))
	}).Methods(http.MethodGet)

	r.HandleFunc(chaindb.PathPostContractTransaction, func(w http.ResponseWriter, req *http.Request) {
		var body chaindb.ContractTransactionRequest
		if !decode(w, req, &body) {
			return
		}
		write(w)(b.PostContractTransaction(req.Context(), body))
	}).Methods(http.MethodPost)

	r.HandleFunc(chaindb.PathCreateUserAccount, func(w http.ResponseWriter, req *http.Request) {
		var body chaindb.CreateUserAccountRequest
		if !decode(w, req, &body) {
			return
		}
		write(w)(b.CreateUserAccount(req.Context(), body))
	}).Methods(http.MethodPost)

	r.HandleFunc(chaindb.PathGetUserAccount+"/{name}/{password}/{key}", func(w http.ResponseWriter, req *http.Request) {
		v := vars(req)
		write(w)(b.GetUserAccount(req.Context(), v["name"], v["password"], v["key"]))
	}).Methods(http.MethodGet)

	r.HandleFunc(chaindb.PathGetUserAccountByID+"/{id}/{key}", func(w http.ResponseWriter, req *http.Request) {
		v := vars(req)
		write(w)(b.GetUserAccountByID(req.Context(), v["id"], v["key"]))
	}).Methods(http.MethodGet)

	r.HandleFunc(chaindb.PathCheckUserName+"/{name}/{key}", func(w http.ResponseWriter, req *http.Request) {
		v := vars(req)
		write(w)(b.CheckUserName(req.Context(), v["name"], v["key"]))
	}).Methods(http.MethodGet)

	r.HandleFunc(chaindb.PathTransferUnits, func(w http.ResponseWriter, req *http.Request) {
		var body chaindb.TransferUnitsRequest
		if !decode(w, req, &body) {
			return
		}
		write(w)(b.TransferUnits(req.Context(), body))
	}).Methods(http.MethodPost)

	r.HandleFunc(chaindb.PathGetTransferByUserID+"/{id}/{key}", func(w http.ResponseWriter, req *http.Request) {
		v := vars(req)
		write(w)(b.GetTransferByUserID(req.Context(), v["id"], v["key"]))
	}).Methods(http.MethodGet)

	r.HandleFunc(chaindb.PathGetAllTransfersByUserID+"/{id}/{key}", func(w http.ResponseWriter, req *http.Request) {
		v := vars(req)
		write(w)(b.GetAllTransfersByUserID(req.Context(), v["id"], v["key"]))
	}).Methods(http.MethodGet)

	return r
}

// vars returns the unescaped route variables. The router matches on the
// encoded path so segments may contain escaped slashes.
func vars(req *http.Request) map[string]string {
	out := mux.Vars(req)
	for k, v := range out {
		if u, err := url.PathUnescape(v); err == nil {
			out[k] = u
		}
	}
	return out
}

func decode(w http.ResponseWriter, req *http.Request, out any) bool {
	defer req.Body.Close()
	if err := json.NewDecoder(req.Body).Decode(out); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func write(w http.ResponseWriter) func([]byte, error) {
	return func(body []byte, err error) {
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}
}
