package models

// ProviderMensagemOK is the sentinel the provider returns when a lookup
// succeeded; anything else in mensagemRetorno is a rejection.
const ProviderMensagemOK = "Sem erros"

// RespostaProvider models the provider's lookup response. Only the fields the
// service maps are typed; the raw body is retained alongside for audit.
type RespostaProvider struct {
	Placa           string        `json:"placa"`
	Marca           string        `json:"marca"`
	Modelo          string        `json:"modelo"`
	Ano             string        `json:"ano"`
	AnoModelo       string        `json:"anoModelo"`
	Cor             string        `json:"cor"`
	Chassi          string        `json:"chassi"`
	Municipio       string        `json:"municipio"`
	UF              string        `json:"uf"`
	Situacao        string        `json:"situacao"`
	MensagemRetorno string        `json:"mensagemRetorno"`
	Extra           ExtraProvider `json:"extra"`
	Fipe            FipeProvider  `json:"fipe"`
}

type ExtraProvider struct {
	Renavam string `json:"renavam"`
}

type FipeProvider struct {
	Dados []FipeDado `json:"dados"`
}

// FipeDado is one valuation candidate. Score is a pointer because the
// provider omits it for weak matches; absent counts as zero when ranking.
type FipeDado struct {
	TextoValor    string   `json:"texto_valor"`
	TextoModelo   string   `json:"texto_modelo"`
	CodigoFipe    string   `json:"codigo_fipe"`
	MesReferencia string   `json:"mes_referencia"`
	Score         *float64 `json:"score,omitempty"`
}
