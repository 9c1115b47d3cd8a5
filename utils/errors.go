/*
 * Copyright 2025 Adrià Giménez Pastor.
 *
 * This file is part of adriagipas/ctrvfs.
 *
 * adriagipas/ctrvfs is free software: you can redistribute it and/or
 * modify it under the terms of the GNU General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * adriagipas/ctrvfs is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with adriagipas/ctrvfs.  If not, see
 * <https://www.gnu.org/licenses/>.
 */
/*
 *  errors.go - Tipus d'errors compartits per tots els paquets.
 */

package utils

import (
  "errors"
)


/**********/
/* ERRORS */
/**********/

var (

  // Cap decodificador reconeix la imatge.
  ErrUnsupportedFormat= errors.New ( "unsupported image format" )

  // El número màgic és correcte però algun camp és inconsistent.
  ErrInvalidFormat= errors.New ( "invalid image format" )

  // El path no apunta a res.
  ErrNotFound= errors.New ( "path not found" )

  // Lectura o escriptura fora de la finestra d'un accessor.
  ErrOutOfRange= errors.New ( "out of range" )

  // L'operació no té sentit per a aquest objecte.
  ErrNotSupported= errors.New ( "operation not supported" )

  // Més de 10 fitxers o nom de més de 8 bytes en reconstruir un ExeFS.
  ErrExeFSCapacity= errors.New ( "ExeFS capacity exceeded" )

  // La regió de dades supera el límit del format.
  ErrSizeLimit= errors.New ( "size limit exceeded" )

  // Dos germans amb el mateix nom en reconstruir un RomFS.
  ErrInvalidTree= errors.New ( "invalid file tree" )

)
