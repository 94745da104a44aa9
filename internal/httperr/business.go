package httperr

import (
	"errors"
	"net/http"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// AsBusiness extracts the business code from err, if any.
func AsBusiness(err error) (string, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return "", false
}

// business code → HTTP status and message. Unknown codes are 400.
var businessCatalog = map[string]struct {
	status  int
	message string
}{
	"invalid_state":             {http.StatusBadRequest, "Operação inválida para o status atual."},
	"invalid_date_or_time":      {http.StatusBadRequest, "Data ou hora inválida."},
	"too_soon":                  {http.StatusBadRequest, "Horário inválido."},
	"outside_working_hours":     {http.StatusBadRequest, "Fora do horário de atendimento."},
	"time_conflict":             {http.StatusConflict, "Conflito de horário."},
	"invalid_amount":            {http.StatusBadRequest, "Valor inválido."},
	"invalid_billing_day":       {http.StatusBadRequest, "Dia de cobrança inválido."},
	"no_services":               {http.StatusBadRequest, "Informe ao menos um serviço."},
	"plan_inactive":             {http.StatusBadRequest, "Plano inativo."},
	"register_not_open":         {http.StatusBadRequest, "Nenhum caixa aberto."},
	"register_already_open":     {http.StatusConflict, "Já existe um caixa aberto."},
	"client_already_subscribed": {http.StatusConflict, "Cliente já possui assinatura ativa."},
	"duplicate_receivable":      {http.StatusConflict, "Conta a receber já existe para o período."},
	"payment_gateway_failed":    {http.StatusBadGateway, "Falha no gateway de pagamento."},
	"notification_failed":       {http.StatusBadGateway, "Falha ao enviar mensagem."},
	"images_disabled":           {http.StatusServiceUnavailable, "Upload de imagens desabilitado."},
	"payments_disabled":         {http.StatusServiceUnavailable, "Pagamentos desabilitados."},
	"invalid_image":             {http.StatusBadRequest, "Imagem inválida."},
	"forbidden":                 {http.StatusForbidden, "Acesso negado."},
	"appointment_not_found":     {http.StatusNotFound, "Agendamento não encontrado."},
	"client_not_found":          {http.StatusNotFound, "Cliente não encontrado."},
	"barber_not_found":          {http.StatusNotFound, "Barbeiro não encontrado."},
	"service_not_found":         {http.StatusNotFound, "Serviço não encontrado."},
	"product_not_found":         {http.StatusNotFound, "Produto não encontrado."},
	"plan_not_found":            {http.StatusNotFound, "Plano não encontrado."},
	"subscription_not_found":    {http.StatusNotFound, "Assinatura não encontrada."},
	"receivable_not_found":      {http.StatusNotFound, "Conta a receber não encontrada."},
	"payable_not_found":         {http.StatusNotFound, "Conta a pagar não encontrada."},
	"commission_not_found":      {http.StatusNotFound, "Comissão não encontrada."},
	"booking_not_found":         {http.StatusNotFound, "Agendamento online não encontrado."},
	"register_not_found":        {http.StatusNotFound, "Caixa não encontrado."},
	"link_not_found":            {http.StatusNotFound, "Link de pagamento não encontrado."},
	"invalid_movement_type":     {http.StatusBadRequest, "Tipo de movimentação inválido."},
	"invalid_payment_method":    {http.StatusBadRequest, "Forma de pagamento inválida."},
	"invalid_client":            {http.StatusBadRequest, "Nome e telefone do cliente obrigatórios."},
	"invalid_phone":             {http.StatusBadRequest, "Telefone inválido."},
	"invalid_email":             {http.StatusBadRequest, "E-mail inválido."},
	"invalid_quantity":          {http.StatusBadRequest, "Quantidade inválida."},
	"invalid_usage_limit":       {http.StatusBadRequest, "Limite de uso inválido."},
	"invalid_duration":          {http.StatusBadRequest, "Duração inválida."},
	"invalid_period":            {http.StatusBadRequest, "Período inválido."},
	"invalid_link_kind":         {http.StatusBadRequest, "Tipo de link inválido."},
	"owner_required":            {http.StatusBadRequest, "Plano exclusivo exige barbeiro responsável."},
	"already_paid":              {http.StatusConflict, "Conta já está paga."},
	"booking_not_pending":       {http.StatusConflict, "Solicitação já foi processada."},
	"invalid_credentials":       {http.StatusUnauthorized, "Credenciais inválidas."},
	"unauthorized":              {http.StatusUnauthorized, "Não autenticado."},
	"whatsapp_disabled":         {http.StatusServiceUnavailable, "WhatsApp desabilitado."},
	"invalid_percentage":        {http.StatusBadRequest, "Percentual deve estar entre 0 e 100."},
	"invalid_password":          {http.StatusBadRequest, "Senha deve ter ao menos 6 caracteres."},
}

func statusFor(code string) (int, string) {
	if entry, ok := businessCatalog[code]; ok {
		return entry.status, entry.message
	}
	return http.StatusBadRequest, code
}
