package pb

type Part struct {
	Id          int64   `json:"id"`
	Kind        string  `json:"kind"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Stock       int64   `json:"stock"`
	Min         int64   `json:"min"`
	Max         int64   `json:"max"`
	MachineId   *int64  `json:"machine_id,omitempty"`
	CompanyName string  `json:"company_name,omitempty"`
}

type Product struct {
	Id      int64   `json:"id"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	Stock   int64   `json:"stock"`
	Min     int64   `json:"min"`
	Max     int64   `json:"max"`
	PartIds []int64 `json:"part_ids"`
}

type SearchRequest struct {
	Query string `json:"query"`
}

func (x *SearchRequest) GetQuery() string {
	if x != nil {
		return x.Query
	}
	return ""
}

type SearchPartsResponse struct {
	Parts []*Part `json:"parts"`
}

type SearchProductsResponse struct {
	Products []*Product `json:"products"`
}

type IdRequest struct {
	Id int64 `json:"id"`
}

func (x *IdRequest) GetId() int64 {
	if x != nil {
		return x.Id
	}
	return 0
}

type AssociationRequest struct {
	ProductId int64 `json:"product_id"`
	PartId    int64 `json:"part_id"`
}

func (x *AssociationRequest) GetProductId() int64 {
	if x != nil {
		return x.ProductId
	}
	return 0
}

func (x *AssociationRequest) GetPartId() int64 {
	if x != nil {
		return x.PartId
	}
	return 0
}

type PartResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Part    *Part  `json:"part,omitempty"`
}

type ProductResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Product *Product `json:"product,omitempty"`
}

type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (x *StatusResponse) GetSuccess() bool {
	if x != nil {
		return x.Success
	}
	return false
}

func (x *StatusResponse) GetMessage() string {
	if x != nil {
		return x.Message
	}
	return ""
}
