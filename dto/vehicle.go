package dto

// DocType identifies a vehicle document family.
type DocType string

const (
	DocTypeRegistration         DocType = "registration"          // 机动车登记证书（注册登记页）
	DocTypeRegistrationTransfer DocType = "registration_transfer" // 登记证尾页（转移登记/登记栏）
	DocTypeInvoice              DocType = "invoice"               // 机动车销售发票
	DocTypeLicense              DocType = "license"               // 机动车行驶证
	DocTypeUnknown              DocType = "unknown"
)

// VehicleInfo holds the fields extracted from one vehicle document.
// Unset fields stay empty; extraction never fails outright.
type VehicleInfo struct {
	VIN           string `json:"vin,omitempty"`
	InvoiceAmount string `json:"invoice_amount,omitempty"`
	OwnerName     string `json:"owner_name,omitempty"`
	BuyerName     string `json:"buyer_name,omitempty"`
	NewOwnerName  string `json:"new_owner_name,omitempty"`
	PlateNumber   string `json:"plate_number,omitempty"`
	VehicleModel  string `json:"vehicle_model,omitempty"`
	EngineNumber  string `json:"engine_number,omitempty"`
	RegisterDate  string `json:"register_date,omitempty"`
}

// IsEmpty reports whether no field was extracted.
func (v VehicleInfo) IsEmpty() bool {
	return v == VehicleInfo{}
}

// MergeVehicleInfo combines records left to right, first non-empty value wins
// per field. Later inputs never overwrite a field an earlier input supplied.
func MergeVehicleInfo(infos ...VehicleInfo) VehicleInfo {
	var merged VehicleInfo
	for _, info := range infos {
		if merged.VIN == "" {
			merged.VIN = info.VIN
		}
		if merged.InvoiceAmount == "" {
			merged.InvoiceAmount = info.InvoiceAmount
		}
		if merged.OwnerName == "" {
			merged.OwnerName = info.OwnerName
		}
		if merged.BuyerName == "" {
			merged.BuyerName = info.BuyerName
		}
		if merged.NewOwnerName == "" {
			merged.NewOwnerName = info.NewOwnerName
		}
		if merged.PlateNumber == "" {
			merged.PlateNumber = info.PlateNumber
		}
		if merged.VehicleModel == "" {
			merged.VehicleModel = info.VehicleModel
		}
		if merged.EngineNumber == "" {
			merged.EngineNumber = info.EngineNumber
		}
		if merged.RegisterDate == "" {
			merged.RegisterDate = info.RegisterDate
		}
	}
	return merged
}

// DocumentRecord is one processed input file: its inferred type, the raw OCR
// text and the vehicle fields extracted from it. Records are created per file
// during a processing pass and consumed by deduplication and export.
type DocumentRecord struct {
	FilePath    string      `json:"file_path"`
	DocType     DocType     `json:"doc_type"`
	Confidence  float64     `json:"confidence"`
	OCRText     string      `json:"ocr_text,omitempty"`
	VehicleInfo VehicleInfo `json:"vehicle_info"`
}
